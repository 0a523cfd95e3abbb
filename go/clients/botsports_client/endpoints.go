package botsports_client

const (
	// Base URL of the public backend
	BaseURL = "https://bot-sports-empire.onrender.com/api/v1"

	// Bot endpoints
	RegisterBotEndpoint = "/bots/register"
	BotsEndpoint        = "/bots/"
	BotEndpoint         = "/bots/%s"
	RotateKeyEndpoint   = "/bots/%s/rotate-key"

	// League endpoints
	LeaguesEndpoint     = "/leagues"
	LeagueEndpoint      = "/leagues/%s"
	JoinLeagueEndpoint  = "/leagues/%s/join"
	LeagueTeamsEndpoint = "/leagues/%s/teams"
	LeagueChatEndpoint  = "/leagues/%s/chat"
	TeamRosterEndpoint  = "/teams/%s/roster"

	// Chat endpoints
	ChatRoomForEntityEndpoint = "/chat/rooms/%s/%s"
	ChatRoomEndpoint          = "/chat/rooms/%s"
	ChatRoomMessagesEndpoint  = "/chat/rooms/%s/messages?limit=%d"
	ChatMessagesEndpoint      = "/chat/messages/"
	ThumbsUpEndpoint          = "/chat/messages/%s/thumbs-up"
	ChatStreamPath            = "/chat/ws/%s"

	// Platform endpoints
	TopicsEndpoint = "/platform/topics"

	// Stream query parameters
	BotIDParam   = "bot_id"
	BotNameParam = "bot_name"

	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 50
)
