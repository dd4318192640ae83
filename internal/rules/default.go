package rules

// nearTermDays covers "same day or next day"
var nearTermDays = 1

// Default returns the built-in rule tables
func Default() Tables {
	within := nearTermDays
	return Tables{
		SplitWords:       []string{"and", "then", "also", "or"},
		SplitRunes:       ",+.;\n!?",
		MinSegmentLength: 2,

		ActionVerbs: []string{
			"call", "email", "e-mail", "text", "message", "phone", "ping",
			"buy", "purchase", "order", "shop", "pay",
			"finish", "complete", "finalize", "submit", "send", "deliver", "file",
			"schedule", "book", "plan", "arrange", "organize", "prepare",
			"review", "check", "read", "research", "study", "learn", "practice",
			"write", "draft", "update", "fix", "repair", "install", "deploy", "test",
			"clean", "tidy", "wash", "vacuum", "mop", "iron", "cook", "water", "feed", "walk",
			"meet", "attend", "visit", "invite", "discuss", "present",
			"pick", "collect", "drop", "return", "bring", "take", "fetch", "grab", "get", "move",
			"renew", "cancel", "register", "apply", "sign", "fill", "confirm", "contact",
			"reply", "respond", "follow", "remind", "tell", "ask", "assign", "delegate",
			"upload", "share", "post", "publish", "print", "backup", "record",
			"exercise", "train", "go", "make", "sort", "clear", "refill", "charge",
		},
		SarcasmPatterns: []string{
			`\byeah,?\s+right\b`,
			`\bi['’]?ll\s+(?:do|get to|finish|start)\s+(?:it|this|that)\s+in\s+(?:\d+|a few|five|two|ten)\s+(?:seconds?|minutes?|mins?)\b`,
			`\bsure,?\s+whatever\b`,
			`\bas if\b`,
			`\bwhen pigs fly\b`,
			`\bin (?:a )?(?:hundred|thousand|million|billion|zillion) years\b`,
			`\bnext (?:century|millennium)\b`,
			`\bnot in this lifetime\b`,
			`\bone of these (?:days|years)\b`,
		},

		FramingPrefixes: []string{
			"i'm going to", "i am going to", "im going to", "i'm gonna", "i am gonna",
			"i want to", "i wanna", "i need to", "i have to", "i've got to", "i have got to",
			"i got to", "i gotta", "i should", "i must", "i will", "i'll",
			"we need to", "we should", "we have to",
			"let me", "remember to", "don't forget to", "dont forget to", "please",
		},

		Priorities: []PriorityRule{
			{Priority: "high", Keywords: []string{
				"urgent", "urgently", "asap", "a.s.a.p", "immediately", "critical",
				"emergency", "right away", "right now", "top priority",
			}},
			{Priority: "medium", WithinDays: &within},
			{Priority: "low", Keywords: []string{
				"maybe", "later", "sometime", "someday", "some day", "eventually",
				"whenever", "no rush", "if possible", "low priority",
			}},
		},
		DefaultPriority: "medium",

		Categories: []CategoryRule{
			{Category: "Meeting", Keywords: []string{
				"call", "meeting", "meet", "sync", "standup", "stand-up", "zoom",
				"interview", "appointment", "conference", "huddle", "webinar",
				"one-on-one", "1:1", "catch up", "phone",
			}},
			{Category: "Work", Keywords: []string{
				"boss", "report", "client", "project", "deadline", "presentation",
				"invoice", "office", "team", "manager", "colleague", "coworker",
				"proposal", "contract", "budget", "resume", "customer", "vendor",
				"stakeholder", "slides", "spreadsheet", "release", "deploy",
				"pull request", "quarterly",
			}},
			{Category: "Personal", Keywords: []string{
				"gym", "groceries", "grocery", "home", "house", "mom", "dad", "family",
				"doctor", "dentist", "laundry", "clean", "cook", "dinner", "birthday",
				"workout", "kids", "dog", "cat", "pharmacy", "haircut", "rent", "bills", "car",
			}},
		},
		DefaultCategory: "Personal",

		DelegationPatterns: []string{
			`(?i:\bassign)\s+.+?\s+(?i:to)\s+([A-Z][\p{L}'’-]*)`,
			`(?i:\bdelegate)\s+.+?\s+(?i:to)\s+([A-Z][\p{L}'’-]*)`,
			`(?i:\btell)\s+([A-Z][\p{L}'’-]*)`,
			`(?i:\bremind)\s+([A-Z][\p{L}'’-]*)`,
			`(?i:\bask)\s+([A-Z][\p{L}'’-]*)`,
			`(?i:\bhave)\s+([A-Z][\p{L}'’-]*)\s+\p{Ll}`,
		},
		NonNames: []string{
			"i", "me", "him", "her", "them", "us", "you", "it", "my", "your", "our",
			"the", "a", "an", "everyone", "everybody", "someone", "somebody", "team",
		},

		TimesOfDay: []TimeOfDay{
			{Keyword: "morning", Hour: 9},
			{Keyword: "noon", Hour: 12},
			{Keyword: "midday", Hour: 12},
			{Keyword: "afternoon", Hour: 15},
			{Keyword: "evening", Hour: 18},
			{Keyword: "tonight", Hour: 21},
			{Keyword: "night", Hour: 21},
			{Keyword: "midnight", Hour: 0},
		},
	}
}
