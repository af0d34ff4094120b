package agent

import "math/rand/v2"

// Static response tables. The dispatcher picks from these uniformly at
// random when a handler has no live data to render.

var greetings = []string{
	"Hello! How can I help you today? 👋",
	"Hi there! What can I do for you? 😊",
	"Hey! Great to see you! How can I assist? 🌟",
	"Greetings! I'm here to help! 🤖",
	"Hello! Ready to chat? What's on your mind? 💬",
}

var generalJokes = []string{
	"Why don't scientists trust atoms? Because they make up everything! 🔬",
	"I told my computer I needed a break, and now it won't stop sending me Kit-Kats! 🍫",
	"Why did the programmer quit his job? Because he didn't get arrays! 💻",
	"What do you call a bear with no teeth? A gummy bear! 🐻",
	"Why did the scarecrow win an award? He was outstanding in his field! 🌾",
	"I'm reading a book about anti-gravity. It's impossible to put down! 📚",
	"Why don't eggs tell jokes? They'd crack each other up! 🥚",
	"What do you call a fake noodle? An impasta! 🍝",
	"Why did the math book look so sad? Because it had too many problems! 📖",
	"What did the ocean say to the beach? Nothing, it just waved! 🌊",
}

var defaultResponses = []string{
	"I'm not sure I understand. Could you try asking differently?",
	"That's interesting! Tell me more about that.",
	"I'm still learning! Could you rephrase your question?",
	"Hmm, I'm not quite sure how to respond to that yet.",
	"I appreciate your message! Could you clarify what you'd like help with?",
}

const helpText = `I'm an AI assistant that can help you with:
- General conversation and questions
- Weather information (try asking about the weather!)
- News headlines (ask me what's in the news!)
- Jokes and humor (ask me for a joke!)
- Fun weather jokes (combine both!)

Try asking me:
- "What's the weather like?"
- "Tell me a joke"
- "Tell me a weather joke"
- "What's in the news?"
- "Hello" or "Hi"

I'm always learning and improving! 🚀`

const errorReply = "I encountered an error processing your message. Please try again."

func pick(options []string) string {
	return options[rand.IntN(len(options))]
}
