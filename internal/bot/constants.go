package bot

// Command tokens recognized in the message branch.
const (
	CmdLists       = "/lists"
	CmdAddItem     = "/+"
	CmdAddItemAlt  = "+"
	CmdDeleteList  = "/delete_list"
	CmdAddUser     = "/add_user"
	CmdAddList     = "/add_list"
	CmdExport      = "/export"
	CallbackGet    = "/get_list"
	CallbackDelete = "/delete_item"
)

// Reply texts.
const (
	msgYourLists       = "Наразі ви маєте наступні списки:"
	msgNotWelcome      = "You are not welcome here."
	msgBadCommand      = "Неправильно написана команда."
	msgIncorrect       = "Command is incorrect"
	msgUnknownCommand  = "Не знаю такої команди"
	msgSomethingWrong  = "Something wrong."
	msgDuplicate       = "Such a name is already registered."
	msgTooManyRequests = "Too many requests. Try again later."
)
