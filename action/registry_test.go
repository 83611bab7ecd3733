package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindloop-ai/mindloop/core"
)

func TestRegisterLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Register(core.ActionDescriptor{Kind: "tweet", Description: "first"})
	r.Register(core.ActionDescriptor{Kind: "tweet", Description: "second"})

	d, ok := r.Definition("tweet")
	assert.True(t, ok)
	assert.Equal(t, "second", d.Description)
	assert.Equal(t, 1, r.Len())
}

func TestDefinitionMissing(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Definition("nope")
	assert.False(t, ok)
}

func TestAvailableSortedByKind(t *testing.T) {
	r := NewRegistry()
	r.Register(core.ActionDescriptor{Kind: "zeta"})
	r.Register(core.ActionDescriptor{Kind: "alpha"})
	r.Register(core.ActionDescriptor{Kind: "mid"})

	kinds := []string{}
	for _, d := range r.Available() {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, kinds)
}

func TestBuiltins(t *testing.T) {
	r := NewRegistry()
	for _, d := range Builtins() {
		r.Register(d)
	}

	tweet, ok := r.Definition("tweet")
	assert.True(t, ok)
	assert.Equal(t, core.KindTweetRequest, tweet.OutputKind)
	assert.Equal(t, "twitter", tweet.TargetClient)
	assert.True(t, tweet.Parameters["text"].Required)

	discord, ok := r.Definition("discord_message")
	assert.True(t, ok)
	assert.Equal(t, core.KindDiscordMessageRequest, discord.OutputKind)
}
