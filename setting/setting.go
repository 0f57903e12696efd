package setting

const (
	Domain             = "anker_solix"
	ExamplesFolderName = "examples"
	TermsLink          = "https://github.com/thomluther/hacs-anker-solix/blob/main/README.md"
)

const (
	CrontabReloadTime = "*/5 * * * *"
)
