package indicator

import (
	"fmt"
	"os"

	"github.com/rbright/divamm/internal/oneclick"
)

type locale string

const (
	localeEnglish locale = "en"
)

type messages struct {
	summary string
	body    func(oneclick.Request) string
}

func indicatorMessagesFromEnv() messages {
	return indicatorMessages(resolveLocale(os.Getenv("LANG")))
}

// resolveLocale maps LANG to a message table. Only English ships today.
func resolveLocale(string) locale {
	return localeEnglish
}

func indicatorMessages(tag locale) messages {
	switch tag {
	case localeEnglish:
		fallthrough
	default:
		return messages{
			summary: "One-click download queued",
			body: func(req oneclick.Request) string {
				return fmt.Sprintf("%s %d (file %d)", req.ItemType, req.ItemID, req.FileID)
			},
		}
	}
}
