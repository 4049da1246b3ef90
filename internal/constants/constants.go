package constants

// Centralized constants for env keys, cookies and auth integration.
const (
	// Environment variable keys
	EnvConfigPath          = "WARMARSHAL_CONFIG"
	EnvDBPath              = "WARMARSHAL_DB"
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"

	// Session / Cookie names
	CookieSessionName = "wm_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteProfiles           = "/profiles"
	RouteArmies             = "/armies"
	RouteLeaderboard        = "/leaderboard"
	RouteBattles            = "/battles"
	RouteBattlesMine        = "/battles/mine"
	RoutePlayerStats        = "/player-stats"
	RouteVersion            = "/version"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RouteAuthLogout         = "/auth/logout"
	RouteMatches            = "/matches"
	RouteMatchByCode        = "/matches/:matchCode"
	RouteMatchStart         = "/matches/:matchCode/start"
	RouteMatchEnd           = "/matches/:matchCode/end"
	RouteMatchEvents        = "/matches/:matchCode/events"
	RouteMatchMove          = "/matches/:matchCode/move"
	RouteMatchChargeTarget  = "/matches/:matchCode/charge-target"
	RouteMatchSelectFight   = "/matches/:matchCode/select-fight"
	RouteMatchBeginFight    = "/matches/:matchCode/begin-fight"
	RouteMatchFighter       = "/matches/:matchCode/select-fighter"
	RouteMatchPileIn        = "/matches/:matchCode/pile-in"
	RouteMatchWeapon        = "/matches/:matchCode/weapon"
	RouteMatchAttackTarget  = "/matches/:matchCode/attack-target"
	RouteMatchAdvanceTurn   = "/matches/:matchCode/advance-turn"
	RouteMatchCancel        = "/matches/:matchCode/cancel"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
	JSONKeyDetails = "details"
	JSONKeyMatch   = "match"
	JSONKeyEvents  = "events"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrInvalidMatchCode       = "Invalid match code"
	ErrMatchNotFound          = "Match not found"
	ErrFailedFetchProfiles    = "Failed to fetch unit profiles"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchBattles     = "Failed to fetch battles"
	ErrFailedFetchStats       = "Failed to fetch stats"
	ErrNameRequired           = "player name is required"

	ErrPlayerNameExceeds    = "Player name exceeds 32 characters"
	ErrPlayerNamesEqual     = "Player names must differ"
	ErrMatchAlreadyStarted  = "Match already started"
	ErrMatchFinished        = "Match is already finished"
	ErrNotAParticipant      = "Player is not part of this match"
	ErrFailedEndMatch       = "Failed to end match"
	ErrUnknownArmy          = "Unknown army list"
	ErrFailedMusterArmies   = "Failed to muster armies"
	ErrCommandNotApplicable = "Command not applicable right now"

	ErrMissingGoogleEnv       = "Google OAuth is not configured"
	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldMatchID   = "match_id"
	LogFieldMatchCode = "match_code"
	LogFieldStatus    = "status"
	LogFieldPlayer    = "player"
	LogFieldArmy      = "army"
	LogFieldAddr      = "addr"
	LogFieldPath      = "path"
)
