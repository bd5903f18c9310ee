package taptempo

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const idleLabelKey = "tap"

var (
	labelLanguages = []language.Tag{language.English, language.Chinese}
	labelMatcher   = language.NewMatcher(labelLanguages)
)

func init() {
	message.SetString(language.English, idleLabelKey, "tap")
	message.SetString(language.Chinese, idleLabelKey, "点击")
}

// IdleLabel is shown instead of a tempo when no tempo is established. lang is
// a BCP 47 tag; unknown or malformed tags fall back to English.
func IdleLabel(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	_, i, _ := labelMatcher.Match(tag)
	return message.NewPrinter(labelLanguages[i]).Sprintf(idleLabelKey)
}
