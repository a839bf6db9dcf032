package model

// BotReservedName is the username Slack reserves for its own bot. The
// account does not always carry the is_bot flag, so the name itself is
// part of the bot check.
const BotReservedName = "slackbot"

// RawMember mirrors one element of the users.list "members" array.
// Only the fields the exporter consumes are declared; unknown fields
// are dropped on decode but survive in the cached raw payload.
type RawMember struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Deleted bool       `json:"deleted"`
	IsBot   bool       `json:"is_bot"`
	Updated int64      `json:"updated"`
	TZ      string     `json:"tz"`
	Profile RawProfile `json:"profile"`
}

// RawProfile is the nested profile object of a raw member.
type RawProfile struct {
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	RealNameNormalized    string `json:"real_name_normalized"`
	DisplayNameNormalized string `json:"display_name_normalized"`
	Email                 string `json:"email"`
	Skype                 string `json:"skype"`
	Phone                 string `json:"phone"`
	Title                 string `json:"title"`
	Image192              string `json:"image_192"`
	Image512              string `json:"image_512"`
	Image1024             string `json:"image_1024"`
	IsCustomImage         bool   `json:"is_custom_image"`
	BotID                 string `json:"bot_id"`
}

// Bot reports whether the member is a bot account
func (x *RawMember) Bot() bool {
	return x.IsBot || x.Name == BotReservedName
}
