// Package rewrite masks identifying header fields in raw email text.
//
// The rewrite is purely textual. Nothing is parsed beyond the regular
// expressions below, so header-less or malformed input passes through.
package rewrite

import (
	"regexp"
	"strings"
)

const (
	// DomainMask replaces the domain of the From address.
	DomainMask = "[P_RPATH]"

	// EntityMask is inserted before the @ of the Message-ID.
	EntityMask = "[EID]"

	// Separator is the line placed between combined messages.
	Separator = "__SEP__"
)

var (
	fromPattern        = regexp.MustCompile(`From:.*?<.*?@.*?>`)
	bracketPattern     = regexp.MustCompile(`<(.*?)>`)
	displayNamePattern = regexp.MustCompile(`From:\s*(.*?)\s*<`)
	subjectPattern     = regexp.MustCompile(`(?m)^Subject:[^\r\n]*`)
	messageIDPattern   = regexp.MustCompile(`Message-ID:\s*<(.*?)@(.*?)>`)
)

// Config selects the optional rewrites. Empty strings mean "leave as is".
type Config struct {
	RemoveReturnPath bool   `json:"remove_return_path" yaml:"remove_return_path"`
	FromName         string `json:"from_name" yaml:"from_name"`
	Subject          string `json:"subject" yaml:"subject"`
}

// IsZero reports whether no optional rewrite is enabled.
func (c Config) IsZero() bool {
	return !c.RemoveReturnPath && c.FromName == "" && strings.TrimSpace(c.Subject) == ""
}

// Rewrite returns text with the configured header rewrites applied.
//
// Steps run in a fixed order: Return-Path span removal, From masking,
// Subject replacement, Message-ID obfuscation. The last one always runs,
// so applying Rewrite twice inserts EntityMask twice.
func Rewrite(text string, cfg Config) string {
	result := text

	if cfg.RemoveReturnPath {
		result = removeReturnPath(result)
	}

	result = rewriteFrom(result, cfg.FromName)

	if strings.TrimSpace(cfg.Subject) != "" {
		result = subjectPattern.ReplaceAllLiteralString(result, "Subject: "+cfg.Subject)
	}

	result = messageIDPattern.ReplaceAllString(result, "Message-ID: <${1}"+EntityMask+"@${2}>")

	return result
}

// Combine joins already rewritten texts with a Separator line.
func Combine(texts []string) string {
	return strings.Join(texts, "\n"+Separator+"\n")
}

// removeReturnPath deletes from the first Delivered-To: through the end of
// the line holding the first Return-Path:.
func removeReturnPath(text string) string {
	deliveredTo := strings.Index(text, "Delivered-To:")
	returnPath := strings.Index(text, "Return-Path:")
	if deliveredTo == -1 || returnPath == -1 || returnPath < deliveredTo {
		return text
	}

	end := len(text)
	if nl := strings.IndexByte(text[returnPath:], '\n'); nl != -1 {
		end = returnPath + nl + 1
	}

	return text[:deliveredTo] + text[end:]
}

func rewriteFrom(text, fromName string) string {
	return fromPattern.ReplaceAllStringFunc(text, func(match string) string {
		address := bracketPattern.FindStringSubmatch(match)
		if address == nil || strings.Count(address[1], "@") != 1 {
			return match
		}
		local, _, _ := strings.Cut(address[1], "@")

		name := fromName
		if name == "" {
			if m := displayNamePattern.FindStringSubmatch(match); m != nil {
				name = m[1]
			}
		}

		return "From: " + name + "<" + local + "@" + DomainMask + ">"
	})
}
