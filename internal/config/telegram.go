package config

type TelegramConfig struct {
	ApiToken       string `yaml:"token" toml:"token"`
	AlertChat      int64  `yaml:"alert-chat-id" toml:"alert-chat-id"`
	DefaultAccount int64  `yaml:"default-account-id" toml:"default-account-id"`
}

func (t *TelegramConfig) Token() string {
	return t.ApiToken
}

func (t *TelegramConfig) AlertChatID() int64 {
	return t.AlertChat
}

func (t *TelegramConfig) DefaultAccountID() int64 {
	return t.DefaultAccount
}
