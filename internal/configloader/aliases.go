package configloader

import (
	"slices"
	"strings"

	"github.com/yaklabco/mdlive/pkg/decorate/rules"
)

// ruleAliases maps alternative rule names to canonical rule IDs.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ruleAliases = map[string]string{
	"checkboxes":    rules.CheckboxID,
	"tasks":         rules.CheckboxID,
	"images":        rules.ImageID,
	"html":          rules.HTMLTagsID,
	"styled-span":   rules.StyledSpansID,
	"spans":         rules.StyledSpansID,
	"code-badges":   rules.CodeBadgeID,
	"code-language": rules.CodeBadgeID,
}

// ruleTags maps tag names to the rule IDs they contain.
// Tags can be used in --enable and --disable to toggle groups of rules.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ruleTags = map[string][]string{
	"block":    {rules.ImageID},
	"inline":   {rules.CheckboxID, rules.HTMLTagsID, rules.HTMLContentID, rules.StyledSpansID, rules.CodeBadgeID},
	"html-all": {rules.HTMLTagsID, rules.HTMLContentID, rules.StyledSpansID},
	"widgets":  {rules.CheckboxID, rules.ImageID},
}

// NormalizeRuleID converts a rule alias or ID to its canonical form.
// Case and underscores are ignored. Unknown keys are returned normalized.
func NormalizeRuleID(key string) string {
	id := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
	if canonical, ok := ruleAliases[id]; ok {
		return canonical
	}
	return id
}

// IsTag returns true if the key is a recognized tag name.
func IsTag(key string) bool {
	_, ok := ruleTags[key]
	return ok
}

// GetTagRules returns the rule IDs associated with a tag.
// Returns nil if the tag is not recognized.
func GetTagRules(tag string) []string {
	return ruleTags[tag]
}

// ExpandRuleList normalizes ids and replaces tags with their rules.
func ExpandRuleList(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, key := range ids {
		if tagged := GetTagRules(key); tagged != nil {
			out = append(out, tagged...)
			continue
		}
		out = append(out, NormalizeRuleID(key))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// GetAliasesForRule returns all aliases for a given rule ID, sorted.
func GetAliasesForRule(ruleID string) []string {
	var aliases []string
	for alias, id := range ruleAliases {
		if id == ruleID {
			aliases = append(aliases, alias)
		}
	}
	slices.Sort(aliases)
	return aliases
}
