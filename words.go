/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// WordPack is a topic's fixed set of candidate words. Every round played
// on a topic uses the whole list, in this order.
type WordPack struct {
	Name  string
	Icon  string
	Words []string
}

var topicOrder = []string{
	"animals",
	"food",
	"sports",
	"movies",
	"countries",
	"jobs",
	"places",
	"objects",
	"emotions",
}

var wordPacks = map[string]WordPack{
	"animals": {
		Name: "Animals",
		Icon: "🦁",
		Words: []string{"Lion", "Eagle", "Dolphin", "Elephant", "Tiger", "Penguin", "Giraffe", "Wolf",
			"Bear", "Shark", "Owl", "Fox", "Rabbit", "Snake", "Monkey", "Whale"},
	},
	"food": {
		Name: "Food",
		Icon: "🍕",
		Words: []string{"Pizza", "Sushi", "Burger", "Pasta", "Tacos", "Steak", "Salad", "Ramen",
			"Curry", "Sandwich", "Soup", "Ice Cream", "Pancakes", "Fries", "Chicken", "Rice"},
	},
	"sports": {
		Name: "Sports",
		Icon: "⚽",
		Words: []string{"Soccer", "Basketball", "Tennis", "Swimming", "Golf", "Boxing", "Skiing", "Rugby",
			"Baseball", "Hockey", "Volleyball", "Cycling", "Surfing", "Wrestling", "Archery", "Fencing"},
	},
	"movies": {
		Name: "Movies",
		Icon: "🎬",
		Words: []string{"Titanic", "Avatar", "Inception", "Frozen", "Joker", "Matrix", "Gladiator", "Shrek",
			"Jaws", "Rocky", "Alien", "Psycho", "Bambi", "Grease", "Minions", "Up"},
	},
	"countries": {
		Name: "Countries",
		Icon: "🌍",
		Words: []string{"Japan", "France", "Brazil", "Egypt", "Canada", "Italy", "Mexico", "India",
			"Greece", "Sweden", "Kenya", "Spain", "Turkey", "Peru", "China", "Norway"},
	},
	"jobs": {
		Name: "Jobs",
		Icon: "👔",
		Words: []string{"Doctor", "Teacher", "Chef", "Pilot", "Artist", "Lawyer", "Farmer", "Actor",
			"Nurse", "Police", "Firefighter", "Engineer", "Writer", "Dentist", "Astronaut", "DJ"},
	},
	"places": {
		Name: "Places",
		Icon: "🏛️",
		Words: []string{"Beach", "Museum", "Airport", "Hospital", "Library", "Stadium", "Casino", "Zoo",
			"Church", "School", "Prison", "Farm", "Theater", "Gym", "Mall", "Restaurant"},
	},
	"objects": {
		Name: "Objects",
		Icon: "📦",
		Words: []string{"Phone", "Mirror", "Clock", "Lamp", "Chair", "Umbrella", "Camera", "Piano",
			"Bicycle", "Telescope", "Hammer", "Candle", "Book", "Wallet", "Glasses", "Key"},
	},
	"emotions": {
		Name: "Emotions",
		Icon: "😊",
		Words: []string{"Happy", "Sad", "Angry", "Scared", "Excited", "Confused", "Proud", "Jealous",
			"Nervous", "Relaxed", "Bored", "Surprised", "Tired", "Hopeful", "Grateful", "Anxious"},
	},
}

func lookupPack(topic string) (WordPack, bool) {
	pack, ok := wordPacks[topic]
	return pack, ok
}

func topics() []string {
	return append([]string(nil), topicOrder...)
}
