package agent

import (
	"context"
	"strings"
)

// Handler produces a reply for a matched message.
type Handler func(ctx context.Context, req Request) (string, error)

// Rule pairs a keyword predicate with a handler. Rules are immutable
// after construction; the ordered rule list is the dispatch table and
// the first match wins.
type Rule struct {
	Name     string
	Keywords []string
	MatchAll bool
	Handler  Handler
}

// Matches reports whether the rule fires for the lowercased message.
// With MatchAll set, every keyword must be a substring; otherwise any
// one suffices.
func (r Rule) Matches(lower string) bool {
	if r.MatchAll {
		for _, k := range r.Keywords {
			if !strings.Contains(lower, k) {
				return false
			}
		}
		return true
	}
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// rules builds the dispatch table. Ordering encodes priority: the
// combined weather+joke rule must precede both the weather rule and the
// joke rule or it can never fire.
func (a *Agent) rules() []Rule {
	return []Rule{
		{
			Name:     "weather_joke",
			Keywords: []string{"weather", "joke"},
			MatchAll: true,
			Handler:  a.handleWeatherJoke,
		},
		{
			Name:     "weather",
			Keywords: []string{"weather", "forecast", "temperature"},
			Handler:  a.handleWeather,
		},
		{
			Name:     "joke",
			Keywords: []string{"joke", "funny", "humor", "laugh"},
			Handler:  a.handleJoke,
		},
		{
			Name:     "greeting",
			Keywords: []string{"hello", "hi", "hey", "greetings"},
			Handler:  a.handleGreeting,
		},
		{
			Name:     "help",
			Keywords: []string{"help", "commands", "what can you do"},
			Handler:  a.handleHelp,
		},
		{
			Name:     "news",
			Keywords: []string{"news", "headlines", "current events"},
			Handler:  a.handleNews,
		},
	}
}
