package cli

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// rupiah formats an integer amount the way prices are shown in the shop, e.g. "Rp 150.000".
func rupiah(amount int64) string {
	return rupiahPrinter.Sprintf("Rp %d", amount)
}

// emit writes v as indented JSON in json mode, or runs text otherwise.
func (a *App) emit(v interface{}, text func()) error {
	if a.Format == "json" {
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text()
	return nil
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.Out, format, args...)
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
