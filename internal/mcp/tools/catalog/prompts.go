package catalog

import "github.com/MrWong99/familytools/internal/mcp"

// Prompts returns the activity server's canned prompts. The names are part of
// the public surface and keep their historical spelling.
func Prompts() []mcp.Prompt {
	return []mcp.Prompt{
		{
			Name:        "family_activites_near_me",
			Description: "Activities for two 45 year old adults within 15 miles of Keller, TX.",
			Text:        "What are some activities that me and my wife who are both 45 can do. This needs to be 15 miles near Keller, TX.",
		},
		{
			Name:        "family_activites_under_100",
			Description: "Free activities for two 45 year old adults.",
			Text:        "What are some activities that my wife and I who are both 45 can do that are free?",
		},
	}
}
