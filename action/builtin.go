package action

import "github.com/mindloop-ai/mindloop/core"

// Builtins returns the descriptors for the built-in platform actions. They
// are registered by the façade at startup; callers can extend the catalog at
// runtime via Registry.Register.
func Builtins() []core.ActionDescriptor {
	return []core.ActionDescriptor{
		{
			Kind:         "tweet",
			Description:  "Post a new tweet to the timeline.",
			Platforms:    []string{"twitter"},
			OutputKind:   core.KindTweetRequest,
			TargetClient: "twitter",
			Parameters: map[string]core.ParamSpec{
				"text": {Type: "string", Required: true, Example: "Shipping something new today."},
			},
			Examples: []string{
				`{"action":"tweet","parameters":{"text":"Good morning, internet."}}`,
			},
		},
		{
			Kind:         "dm",
			Description:  "Send a direct message to a user on Twitter.",
			Platforms:    []string{"twitter"},
			OutputKind:   core.KindDMRequest,
			TargetClient: "twitter",
			Parameters: map[string]core.ParamSpec{
				"text":   {Type: "string", Required: true, Example: "Thanks for reaching out!"},
				"userId": {Type: "string", Required: true, Example: "u1"},
			},
			Examples: []string{
				`{"action":"dm","parameters":{"text":"Thanks for reaching out!","userId":"u1"}}`,
			},
		},
		{
			Kind:         "discord_message",
			Description:  "Post a message to a Discord channel.",
			Platforms:    []string{"discord"},
			OutputKind:   core.KindDiscordMessageRequest,
			TargetClient: "discord",
			Parameters: map[string]core.ParamSpec{
				"text":      {Type: "string", Required: true, Example: "Hello channel!"},
				"channelId": {Type: "string", Required: true, Example: "c1"},
			},
			Examples: []string{
				`{"action":"discord_message","parameters":{"text":"Hello channel!","channelId":"c1"}}`,
			},
		},
	}
}
