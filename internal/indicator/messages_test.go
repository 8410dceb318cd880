package indicator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/divamm/internal/oneclick"
)

func TestResolveLocaleDefaultsToEnglish(t *testing.T) {
	require.Equal(t, localeEnglish, resolveLocale("en_US.UTF-8"))
	require.Equal(t, localeEnglish, resolveLocale("fr_FR.UTF-8"))
}

func TestIndicatorMessagesEnglish(t *testing.T) {
	msg := indicatorMessages(localeEnglish)
	require.Equal(t, "One-click download queued", msg.summary)
	require.Equal(t, "Mod 12345 (file 555)", msg.body(oneclick.Request{FileID: 555, ItemType: "Mod", ItemID: 12345}))
}
