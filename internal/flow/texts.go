package flow

const (
	textGreeting       = "Ассаляму алейкум.\nЭто библиотека книг.\nВыберите действие:"
	textChooseAction   = "Выберите действие:"
	textNoCategories   = "Пока нет категорий. Админ может добавить книги."
	textCategories     = "Категории:"
	textCategoryEmpty  = "Категория: %s\nПока пусто."
	textBooksIn        = "Книги: %s"
	textBookCard       = "📘 %s\n✍️ %s\n📄 Формат: %s\n\n%s"
	textCategoryAbsent = "Категория не найдена"
	textBookAbsent     = "Книга не найдена"
	textNoFile         = "Файл не привязан к книге"
	textUnavailable    = "Каталог временно недоступен. Попробуйте позже."
	textCancelled      = "Отменено."
	textAccessDenied   = "Нет доступа"

	textSearchAsk     = "Напишите слово для поиска (название или автор)."
	textSearchNothing = "Ничего не нашёл. Попробуйте другое слово."
	textSearchFound   = "Нашёл:\n%s\n\nОткройте «Категории», чтобы скачать."

	textAdminAskFile = "Админ-добавление:\n" +
		"1) Пришлите EPUB/PDF как файл (Document) в этот чат.\n" +
		"Можно переслать файл из другого чата.\n\n" +
		"Чтобы отменить: /cancel"
	textAdminNoCategories = "Категорий пока нет. Создадим новую.\n" +
		"Введите ID категории (латиница/цифры), например: aqidah"
	textAdminChooseCategory = "Выберите категорию для книги:"
	textAdminAskNewCatID    = "Введите ID новой категории (латиница/цифры), например: aqidah"
	textAdminBadCatID       = "ID должен быть только из латиницы/цифр/дефиса. Пример: aqidah"
	textAdminAskNewCatTitle = "Введите название категории (по-русски), например: Акыда"
	textAdminEmptyCatTitle  = "Название категории не может быть пустым. Например: Акыда"
	textAdminCategoryMade   = "Категория создана.\nТеперь введите название книги:"
	textAdminAskTitle       = "Введите название книги:"
	textAdminEmptyTitle     = "Название книги не может быть пустым. Введите название книги:"
	textAdminAskAuthor      = "Введите автора (или напишите “-”):"
	textAdminAskDesc        = "Введите краткое описание (или “-”):"
	textAdminDone           = "Готово. Книга добавлена:\nID: %s\n%s\nКатегория: %s"
	textAdminCategoryLost   = "Категория %q больше не существует. Книга не добавлена, начните заново."

	labelCategories = "Категории"
	labelSearch     = "Поиск"
	labelAdminAdd   = "➕ Добавить книгу (админ)"
	labelBack       = "⬅️ Назад"
	labelBackToCats = "⬅️ Категории"
	labelDownload   = "📥 Скачать"
	labelNewCat     = "➕ Новая категория"
	labelCancel     = "❌ Отмена"

	// skipMarker is typed instead of an optional value.
	skipMarker = "-"
)
