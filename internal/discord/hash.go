package discord

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// hashCommand returns a digest of the parts of a command Discord lets us
// define. IDs, versions and other server-assigned fields are ignored, so a
// fetched command hashes equal to the definition it was created from.
func hashCommand(cmd *discordgo.ApplicationCommand) string {
	typ := cmd.Type
	if typ == 0 {
		typ = discordgo.ChatApplicationCommand
	}
	obj := map[string]any{
		"name":        cmd.Name,
		"description": cmd.Description,
		"type":        typ,
	}
	if len(cmd.Options) > 0 {
		obj["options"] = canonicalOptions(cmd.Options)
	}
	data, _ := json.Marshal(obj)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func canonicalOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	out := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if o.MinValue != nil {
			entry["min_value"] = *o.MinValue
		}
		if o.MaxValue != 0 {
			entry["max_value"] = o.MaxValue
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, c := range o.Choices {
				choices[j] = map[string]any{"name": c.Name, "value": c.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = canonicalOptions(o.Options)
		}
		out[i] = entry
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
