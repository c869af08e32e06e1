package quote

import "math/rand"

// FallbackQuotes are served whenever the provider cannot be reached. The
// reply pipeline relies on there always being a quote to send.
var FallbackQuotes = []string{
	"The only way to do great work is to love what you do. - Steve Jobs",
	"Innovation distinguishes between a leader and a follower. - Steve Jobs",
	"Life is what happens to you while you're busy making other plans. - John Lennon",
	"The future belongs to those who believe in the beauty of their dreams. - Eleanor Roosevelt",
	"It is during our darkest moments that we must focus to see the light. - Aristotle",
}

// FallbackQuote returns a random entry from the fallback list.
func FallbackQuote() string {
	return FallbackQuotes[rand.Intn(len(FallbackQuotes))]
}
