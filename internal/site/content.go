package site

const EVENT_NAME = "Vibe Coding Hackathon"

var hero = Hero{
	Edition:  "2025 Edition",
	Title:    EVENT_NAME,
	Subtitle: "Build the future with the world's best developers.",
	Stats: []Stat{
		{Value: "500+", Label: "Participants"},
		{Value: "$50K", Label: "In Prizes"},
		{Value: "48h", Label: "Of Coding"},
		{Value: "100+", Label: "Projects"},
	},
}

var highlights = []Highlight{
	{Title: "48 Hours", Description: "Non-stop coding marathon to build your dream project"},
	{Title: "AI & Web3 Theme", Description: "Focus on cutting-edge technologies shaping the future"},
	{Title: "Teams of 1-4", Description: "Collaborate with talented developers worldwide"},
	{Title: "$50,000 Prizes", Description: "Cash prizes, sponsor swag, and exclusive opportunities"},
	{Title: "Hybrid Mode", Description: "Join online or at our flagship venue in San Francisco"},
	{Title: "Expert Mentors", Description: "Get guidance from industry leaders and tech experts"},
}

var schedule = []Event{
	{Date: "March 15, 2025", Time: "9:00 AM", Title: "Registration Opens", Description: "Online registration begins. Secure your spot early!"},
	{Date: "April 1, 2025", Time: "10:00 AM", Title: "Kickoff Ceremony", Description: "Opening keynote, team formation, and challenge reveal."},
	{Date: "April 1, 2025", Time: "12:00 PM", Title: "Hacking Begins", Description: "48 hours of non-stop building, learning, and creating."},
	{Date: "April 2, 2025", Time: "2:00 PM", Title: "Mentor Sessions", Description: "One-on-one guidance from industry experts."},
	{Date: "April 3, 2025", Time: "12:00 PM", Title: "Submissions Due", Description: "Final project submissions and demo preparations."},
	{Date: "April 3, 2025", Time: "6:00 PM", Title: "Awards Ceremony", Description: "Winners announced, prizes awarded, celebration!"},
}

var winners = []Winner{
	{
		Place:       "1st Place",
		TeamName:    "Team Quantum",
		ProjectName: "NeuroBridge AI",
		Description: "An AI-powered platform that bridges communication gaps for neurodivergent individuals using adaptive language processing.",
		TechStack:   []string{"React", "Python", "TensorFlow", "Supabase"},
	},
	{
		Place:       "2nd Place",
		TeamName:    "Code Crusaders",
		ProjectName: "EcoTrack",
		Description: "A decentralized carbon footprint tracking system using blockchain for transparent environmental impact reporting.",
		TechStack:   []string{"Next.js", "Solidity", "IPFS", "The Graph"},
	},
	{
		Place:       "3rd Place",
		TeamName:    "Binary Builders",
		ProjectName: "MedSync",
		Description: "A real-time medical record synchronization platform ensuring seamless data sharing across healthcare providers.",
		TechStack:   []string{"TypeScript", "Node.js", "PostgreSQL", "Redis"},
	},
}

var rules = []RuleCategory{
	{
		Title: "Eligibility",
		Rules: []string{
			"Open to developers, designers, and makers of all skill levels",
			"Teams must consist of 1-4 members",
			"Individual participation is allowed with team matching option",
		},
	},
	{
		Title: "Submission Rules",
		Rules: []string{
			"All code must be written during the hackathon period",
			"Use of open-source libraries and APIs is permitted",
			"Projects must include a working demo or prototype",
			"Submission must include source code repository access",
			"Documentation and presentation slides are required",
		},
	},
	{
		Title: "Code of Conduct",
		Rules: []string{
			"Respect all participants, mentors, and organizers",
			"No harassment, discrimination, or inappropriate behavior",
			"Maintain a collaborative and supportive environment",
			"Report any violations to the organizing team",
		},
	},
	{
		Title: "Evaluation Criteria",
		Rules: []string{
			"Innovation & Creativity (25%)",
			"Technical Implementation (25%)",
			"Design & User Experience (20%)",
			"Potential Impact (15%)",
			"Presentation Quality (15%)",
		},
	},
}
