// Package rules provides the built-in decoration rules.
//
// # Inline rules
//
// Inline rules run under the viewport engine and produce line-scoped
// decorations:
//
//   - checkbox: task markers become checkbox widgets; completed tasks get a
//     line class
//
//   - html-tags: hides <sub>, <sup>, <strike> and <span> tags
//
//   - html-content: styles the text between matching tags
//
//   - styled-spans: applies span color and background color, even next to
//     the cursor
//
//   - code-badge: labels fenced code blocks that have no info string
//
// # Block rules
//
// Block rules run under the whole-document engine:
//
//   - image: resource images alone on their line become block widgets
//
// # Scripted rules
//
// Lua scripts define additional rules with a decide(node) function. See
// LuaRule.
package rules
