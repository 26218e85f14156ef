// Copyright (c) 2025 Snelldock Authors
// Snelldock - containerized Snell proxy manager
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization support for Snelldock.
// It uses the go-i18n library to load embedded translation files, so the
// menu and all status messages can be displayed in multiple languages.
package i18n

import (
	"fmt"
	"io/fs"
	"strings"

	"embed"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// displayNames maps locale codes to the name shown in the language menu.
var displayNames = map[string]string{
	"en": "English",
	"zh": "简体中文",
}

var (
	bundle      *goi18n.Bundle
	localizer   *goi18n.Localizer
	currentLang = "en"
)

// Init initializes the i18n bundle and sets up the localizer for a specific
// language. All embedded locale files are parsed into the bundle.
func Init(lang string) {
	bundle = goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, _ := localeFS.ReadFile("locales/" + f.Name())
		_, _ = bundle.ParseMessageFileBytes(data, f.Name())
	}

	currentLang = lang
	localizer = goi18n.NewLocalizer(bundle, lang)
}

// T translates a message by its ID. Extra args are applied fmt.Sprintf-style
// to the translated template. If the ID has no translation, the ID itself is
// returned so missing strings stay visible instead of blank.
func T(messageID string, args ...any) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// SetLang changes the active language of the localizer.
func SetLang(lang string) {
	Init(lang)
}

// GetLang reports the currently active language code.
func GetLang() string {
	return currentLang
}

// GetAvailableLocales returns the locale codes discovered in the embedded
// locale directory, mapped to their display names.
func GetAvailableLocales() map[string]string {
	out := map[string]string{}
	files, _ := fs.ReadDir(localeFS, "locales")
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		code := strings.TrimSuffix(f.Name(), ".yaml")
		name, ok := displayNames[code]
		if !ok {
			name = code
		}
		out[code] = name
	}
	return out
}
