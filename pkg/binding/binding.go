// Package binding maps linked text channels between the two platforms.
// Bindings are loaded once at startup and never change while running.
package binding

import "fmt"

// Binding links one Guilded text channel to one Discord text channel.
type Binding struct {
	Guilded string `json:"guilded"`
	Discord string `json:"discord"`
}

// Table is the immutable bidirectional channel map.
type Table struct {
	discordByGuilded map[string]string
	guildedByDiscord map[string]string
}

// NewTable builds the two lookup maps. A channel ID appearing in more than
// one binding is a configuration error.
func NewTable(pairs []Binding) (*Table, error) {
	t := &Table{
		discordByGuilded: make(map[string]string, len(pairs)),
		guildedByDiscord: make(map[string]string, len(pairs)),
	}
	for _, p := range pairs {
		if p.Guilded == "" || p.Discord == "" {
			return nil, fmt.Errorf("binding %+v: both channel ids are required", p)
		}
		if _, dup := t.discordByGuilded[p.Guilded]; dup {
			return nil, fmt.Errorf("guilded channel %s bound twice", p.Guilded)
		}
		if _, dup := t.guildedByDiscord[p.Discord]; dup {
			return nil, fmt.Errorf("discord channel %s bound twice", p.Discord)
		}
		t.discordByGuilded[p.Guilded] = p.Discord
		t.guildedByDiscord[p.Discord] = p.Guilded
	}
	return t, nil
}

// DiscordFor returns the Discord channel linked to a Guilded channel.
func (t *Table) DiscordFor(guildedID string) (string, bool) {
	id, ok := t.discordByGuilded[guildedID]
	return id, ok
}

// GuildedFor returns the Guilded channel linked to a Discord channel.
func (t *Table) GuildedFor(discordID string) (string, bool) {
	id, ok := t.guildedByDiscord[discordID]
	return id, ok
}

// Len reports the number of configured pairs.
func (t *Table) Len() int {
	return len(t.discordByGuilded)
}
