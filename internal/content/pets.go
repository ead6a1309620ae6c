package content

// Pet describes one virtual-pet tool.
type Pet struct {
	Description string   `json:"description"`
	Features    []string `json:"features"`
	URL         string   `json:"url"`
	Technology  string   `json:"technology"`
}

// PetsInfo is the virtual-pets readout.
type PetsInfo struct {
	Message     string            `json:"message"`
	Pets        map[string]Pet    `json:"pets"`
	TotalPets   int               `json:"total_pets"`
	NewFeatures map[string]string `json:"new_features"`
}

// VirtualPets returns the pet tools the desktop links to.
func VirtualPets() PetsInfo {
	pets := map[string]Pet{
		"cosmic_pets": {
			Description: "A cosmic-themed browser-based virtual pet hatching and caring game",
			Features: []string{
				"Hatch cosmic eggs",
				"Feed and care for pets",
				"Level up and evolve",
				"Achievement system",
				"Real-time pet stats",
			},
			URL:        "/virtual-pets-tool/",
			Technology: "Pure HTML/CSS/JavaScript",
		},
		"cosmic_sheep": {
			Description: "An interactive cosmic sheep that eats floating icons and grows",
			Features: []string{
				"Click to move sheep around",
				"Sheep eats various cosmic icons",
				"Stats tracking (hunger, happiness, energy)",
				"Level up and evolution system",
				"Achievement unlocking",
				"Auto mode for continuous play",
				"Beautiful cosmic animations",
			},
			URL:        "/virtual-sheep-pet/",
			Technology: "Pure HTML/CSS/JavaScript with game mechanics",
		},
		"desktop_pets": {
			Description: "Advanced desktop pets with AI behavior, inspired by classic desktop companions",
			Features: []string{
				"Multiple pet types (cats, dogs, rabbits, etc.)",
				"AI-driven autonomous behavior",
				"Draggable pet interaction",
				"Dynamic state management (sleeping, walking, playing)",
				"Food spawning and consumption mechanics",
				"Speech bubbles and personality expressions",
				"Real-time pet statistics tracking",
			},
			URL:        "/virtual-desktop-pets/",
			Technology: "Advanced JavaScript with AI behavior algorithms",
		},
	}
	return PetsInfo{
		Message:   "Virtual Pets Ecosystem Available",
		Pets:      pets,
		TotalPets: len(pets),
		NewFeatures: map[string]string{
			"desktop_pets": "Advanced AI behavior system with autonomous pet actions",
			"job_portal":   "Comprehensive remote waitressing job hunting platform",
		},
	}
}
