// Package i18n — локализация писем и пользовательских сообщений (en/ru).
package i18n

import (
	"embed"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed translations/*.toml
var translationFS embed.FS

var bundle *i18n.Bundle

func Init() error {
	bundle = i18n.NewBundle(language.Russian)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files := []string{
		"translations/active.ru.toml",
		"translations/active.en.toml",
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(translationFS, file); err != nil {
			return err
		}
	}
	return nil
}

// Normalize — поддерживаем только en и ru, остальное падает в ru
func Normalize(locale string) string {
	if locale == "en" {
		return "en"
	}
	return "ru"
}

func T(locale, messageID string) string {
	return TData(locale, messageID, nil)
}

func TData(locale, messageID string, data map[string]any) string {
	if bundle == nil {
		return messageID
	}
	localizer := i18n.NewLocalizer(bundle, Normalize(locale))
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
