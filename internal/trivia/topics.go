// Package trivia proxies anonymous quick-play questions from Open Trivia DB.
package trivia

// Topic is a quick-play category. A nil CategoryID mixes all categories.
type Topic struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	CategoryID *int   `json:"category_id"`
}

func category(id int) *int { return &id }

var topics = []Topic{
	{Key: "mixed", Label: "Mixed Quiz"},
	{Key: "general", Label: "General Knowledge", CategoryID: category(9)},
	{Key: "books", Label: "Books & Literature", CategoryID: category(10)},
	{Key: "film", Label: "Movies & Film", CategoryID: category(11)},
	{Key: "music", Label: "Music", CategoryID: category(12)},
	{Key: "musicals", Label: "Musicals & Theatre", CategoryID: category(13)},
	{Key: "tv", Label: "Television", CategoryID: category(14)},
	{Key: "games", Label: "Video Games", CategoryID: category(15)},
	{Key: "board", Label: "Board Games", CategoryID: category(16)},
	{Key: "science_nature", Label: "Science & Nature", CategoryID: category(17)},
	{Key: "computers", Label: "Science: Computers", CategoryID: category(18)},
	{Key: "math", Label: "Science: Mathematics", CategoryID: category(19)},
	{Key: "mythology", Label: "Mythology", CategoryID: category(20)},
	{Key: "sports", Label: "Sports", CategoryID: category(21)},
	{Key: "geography", Label: "Geography", CategoryID: category(22)},
	{Key: "history", Label: "History", CategoryID: category(23)},
	{Key: "politics", Label: "Politics", CategoryID: category(24)},
	{Key: "art", Label: "Arts", CategoryID: category(25)},
	{Key: "celebrities", Label: "Celebrities", CategoryID: category(26)},
	{Key: "animals", Label: "Animals", CategoryID: category(27)},
	{Key: "vehicles", Label: "Vehicles", CategoryID: category(28)},
	{Key: "comics", Label: "Entertainment: Comics", CategoryID: category(29)},
	{Key: "gadgets", Label: "Science: Gadgets", CategoryID: category(30)},
	{Key: "anime", Label: "Anime & Manga", CategoryID: category(31)},
	{Key: "cartoons", Label: "Cartoons & Animations", CategoryID: category(32)},
}

// Topics returns the quick-play catalogue in display order.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// LookupTopic finds a topic by key.
func LookupTopic(key string) (Topic, bool) {
	for _, t := range topics {
		if t.Key == key {
			return t, true
		}
	}
	return Topic{}, false
}
