// Package format holds the display helpers shared by the order table, the
// dashboard and the printable documents.
package format

import (
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency renders a whole-rupee amount as "Rs 1,500".
func Currency(amount int64) string {
	if amount < 0 {
		return "-Rs " + printer.Sprintf("%d", -amount)
	}
	return "Rs " + printer.Sprintf("%d", amount)
}

// Initials returns up to two upper-cased leading letters of the words in name,
// or "??" when name is empty.
func Initials(name string) string {
	if name == "" {
		return "??"
	}
	var b strings.Builder
	for _, word := range strings.Split(name, " ") {
		for _, r := range word {
			b.WriteRune(r)
			break
		}
	}
	out := []rune(strings.ToUpper(b.String()))
	if len(out) > 2 {
		out = out[:2]
	}
	return string(out)
}

var avatarColors = []string{
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"linear-gradient(135deg, #11998e 0%, #38ef7d 100%)",
	"linear-gradient(135deg, #ee0979 0%, #ff6a00 100%)",
	"linear-gradient(135deg, #2193b0 0%, #6dd5ed 100%)",
	"linear-gradient(135deg, #cc2b5e 0%, #753a88 100%)",
}

// AvatarColor picks a background gradient from the first UTF-16 code unit of
// name, so the same customer always gets the same color.
func AvatarColor(name string) string {
	if name == "" {
		return avatarColors[0]
	}
	r := []rune(name)[0]
	unit := int(r)
	if r > 0xFFFF {
		unit = int(utf16.Encode([]rune{r})[0])
	}
	return avatarColors[unit%len(avatarColors)]
}

// rtlScript covers the Arabic and Arabic Supplement blocks used for Urdu.
var rtlScript = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06FF, Stride: 1},
		{Lo: 0x0750, Hi: 0x077F, Stride: 1},
	},
}

// IsRTL reports whether s contains any Urdu/Arabic script character.
func IsRTL(s string) bool {
	for _, r := range s {
		if unicode.Is(rtlScript, r) {
			return true
		}
	}
	return false
}
