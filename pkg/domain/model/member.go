package model

import (
	"strconv"

	"github.com/secmon-lab/rolodex/pkg/domain/types"
)

// Member is one normalized directory record. Empty string means the
// field is absent; normalization guarantees RealName is never empty and
// Title never equals the configured opt-out key.
type Member struct {
	FirstName     string
	LastName      string
	RealName      string // real_name_normalized
	Email         string
	Skype         string
	Phone         string
	Title         string
	Image1024     string
	Image512      string
	Image192      string
	IsCustomImage bool
	DisplayName   string // display_name_normalized
	Timezone      string
	ID            types.MemberID
	Deleted       bool
	Updated       int64
	BotID         string // populated only for bot accounts
}

// CSVColumns returns the header of the contacts CSV in canonical field
// order. The bot_id column is appended only when bot accounts are part
// of the export.
func CSVColumns(withBots bool) []string {
	cols := []string{
		"first_name", "last_name", "real_name_normalized",
		"email", "skype", "phone", "title",
		"image_1024", "image_512", "image_192", "is_custom_image",
		"display_name_normalized",
		"tz",
		"id",
		"deleted", "updated",
	}
	if withBots {
		cols = append(cols, "bot_id")
	}
	return cols
}

// CSVRow renders the member in the same order as CSVColumns
func (x *Member) CSVRow(withBots bool) []string {
	row := []string{
		x.FirstName, x.LastName, x.RealName,
		x.Email, x.Skype, x.Phone, x.Title,
		x.Image1024, x.Image512, x.Image192, strconv.FormatBool(x.IsCustomImage),
		x.DisplayName,
		x.Timezone,
		x.ID.String(),
		strconv.FormatBool(x.Deleted), strconv.FormatInt(x.Updated, 10),
	}
	if withBots {
		row = append(row, x.BotID)
	}
	return row
}
