package dialog

// User-facing reply texts. The bot speaks Russian, matching its audience
// on the Moscow Exchange.
const (
	msgWelcome = "Добро пожаловать!"
	msgBusy    = "Сначала завершите текущую операцию или введите /stop для отмены"
	msgUnknown = "Выберите действие на клавиатуре"

	msgAskTicker         = "Введите идентификатор приобретенного инструмента"
	msgTickerNotFound    = "Указанный идентификатор ценной бумаги не найден на Московской бирже"
	msgAskTickerRetry    = "Введите корректный идентификатор приобретенного инструмента или введите /stop для отмены"
	msgAskUnitPrice      = "Введите стоимость единицы ценной бумаги"
	msgBadUnitPrice      = "Вы некорректно указали стоимость одной ценной бумаги."
	msgAskUnitPriceRetry = "Введите стоимость приобретения в числовом формате или введите /stop для отмены."
	msgAskQuantity       = "Введите количество приобретенных единиц инструмента"
	msgBadQuantity       = "Вы некорректно указали количество приобретенных единиц ценной бумаги."
	msgAskQuantityRetry  = "Введите количество в виде целого числа или введите /stop для отмены."
	msgHoldingSaved      = "Информация о приобретенной ценной бумаге успешно сохранена!"
	msgHoldingSaveFailed = "Не удалось сохранить запись. Попробуйте ввести количество еще раз."
	msgAddStockCancelled = "Добавление информации о приобретенной ценной бумаге отменено"

	msgAskCheckTicker   = "Назовите тикер акции и я сообщу ее курс"
	msgCheckHeader      = "Вы запросили курс для тикера: %s"
	msgQuotePrice       = "Стоимость %s %s"
	msgStockNotFound    = "Ценная бумага не существует"
	msgQuoteUnavailable = "Котировка временно недоступна"

	msgAskRubAmount       = "Назовите сумму в рублях, которую хотите перевести в доллары"
	msgBadRubAmount       = "Введите сумму в рублях в числовом формате"
	msgRateUnavailable    = "Не удалось получить текущий курс. Попробуйте позже."
	msgConversion         = "На %s RUB вы сможете купить %s USD"
	msgAskConfirm         = "Добавить данную покупку в БД?"
	msgAskConfirmRetry    = "Ответьте с помощью кнопок Да/Нет"
	msgPurchaseSaved      = "Транзакция добавлена в БД."
	msgPurchaseDeclined   = "Транзакция отменена."
	msgPurchaseSaveFailed = "Не удалось сохранить транзакцию. Подтвердите покупку еще раз."

	msgInternalError = "Внутренняя ошибка. Операция сброшена, начните заново."

	msgEmptyPortfolio    = "Ваш портфель пуст."
	msgPortfolioHeader   = "Вы приобрели %d инструментов, на общую сумму %s RUB"
	msgPortfolioLine     = "%s: %d шт. × %s %s = %s %s"
	msgPortfolioDetail   = "  • Куплено по %s, разница: %s (%s%%)"
	msgPortfolioBadLot   = "  • Цена покупки не записана, изменение не рассчитано"
	msgPortfolioUnpriced = "%s: %d шт., котировка недоступна"
)
