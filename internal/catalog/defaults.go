package catalog

// Default returns the built-in multi-provider catalog. The entries mirror
// the voices the simulator is tuned against; deployments can replace them
// with a YAML file via LoadFile.
func Default() *Catalog {
	voices := []Voice{
		// Cartesia Hindi/Hinglish voices.
		{
			ID:          "fd2ada67-c2d9-4afe-b474-6386b87d8fc3",
			Provider:    "cartesia",
			Name:        "Ishan",
			Gender:      "male",
			Languages:   []string{"hi", "en"},
			Accents:     []string{"india"},
			Roles:       []Role{RoleSupport},
			Priority:    8,
			Description: "Conversational male for Hinglish sales and customer support",
		},
		{
			ID:          "1259b7e3-cb8a-43df-9446-30971a46b8b0",
			Provider:    "cartesia",
			Name:        "Devansh",
			Gender:      "male",
			Languages:   []string{"hi"},
			Accents:     []string{"india"},
			Roles:       []Role{RoleSupport},
			Priority:    10,
			Description: "Warm, conversational Indian male adult voice for Hindi support",
		},
		{
			ID:          "791d5162-d5eb-40f0-8189-f19db44611d8",
			Provider:    "cartesia",
			Name:        "Ayush",
			Gender:      "male",
			Languages:   []string{"hi"},
			Accents:     []string{"india"},
			Roles:       []Role{RoleCustomer},
			Priority:    10,
			Description: "Conversational Hindi male voice",
		},
		{
			ID:          "9cebb910-d4b7-4a4a-85a4-12c79137724c",
			Provider:    "cartesia",
			Name:        "Aarti",
			Gender:      "female",
			Languages:   []string{"hi"},
			Accents:     []string{"india"},
			Roles:       []Role{RoleCustomer},
			Priority:    10,
			Description: "Conversational Hindi female voice",
		},
		{
			ID:          "39c3388d-6b3f-4cec-88d7-900bd0899e00",
			Provider:    "cartesia",
			Name:        "Aarav",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"india"},
			Roles:       []Role{RoleCustomer},
			Priority:    10,
			Description: "Conversational English male with Indian accent",
		},

		// Cartesia US English voices.
		{
			ID:          "a0e99841-438c-4a64-b679-ae501e7d6091",
			Provider:    "cartesia",
			Name:        "Professional Male",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleSupport},
			Description: "Professional US English male voice",
		},
		{
			ID:          "a167e0f3-df7e-4d52-a9c3-f949145efdab",
			Provider:    "cartesia",
			Name:        "Customer Support Male",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleCustomer, RoleSupport},
			Description: "Customer support US English male voice",
		},
		{
			ID:          "f9836c6e-a0bd-460e-9d3c-f7299fa60f94",
			Provider:    "cartesia",
			Name:        "Professional Female",
			Gender:      "female",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleSupport},
			Description: "Professional US English female voice",
		},
		{
			ID:          "6ccbfb76-1fc6-48f7-b71d-91ac6298247b",
			Provider:    "cartesia",
			Name:        "Natural Female",
			Gender:      "female",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleCustomer},
			Description: "Natural US English female voice",
		},

		// OpenAI voices, US English only.
		{
			ID:          "onyx",
			Provider:    "openai",
			Name:        "Onyx",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleSupport},
			Description: "Deep, authoritative male voice",
		},
		{
			ID:          "echo",
			Provider:    "openai",
			Name:        "Echo",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleCustomer},
			Description: "Clear, friendly male voice",
		},
		{
			ID:          "fable",
			Provider:    "openai",
			Name:        "Fable",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleCustomer},
			Description: "Warm, older-sounding male voice",
		},
		{
			ID:          "alloy",
			Provider:    "openai",
			Name:        "Alloy",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleSupport, RoleCustomer},
			Description: "Neutral, versatile male voice",
		},
		{
			ID:          "nova",
			Provider:    "openai",
			Name:        "Nova",
			Gender:      "female",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleCustomer},
			Description: "Bright, energetic female voice",
		},
		{
			ID:          "shimmer",
			Provider:    "openai",
			Name:        "Shimmer",
			Gender:      "female",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleCustomer},
			Description: "Soft, gentle female voice",
		},

		// ElevenLabs voices, US English only.
		{
			ID:          "2EiwWnXFnvU5JabPnv8n",
			Provider:    "elevenlabs",
			Name:        "Clyde",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleSupport},
			Description: "Mature, authoritative male voice",
		},
		{
			ID:          "EXAVITQu4vr4xnSDxMaL",
			Provider:    "elevenlabs",
			Name:        "Sarah",
			Gender:      "female",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleCustomer},
			Description: "Friendly female voice",
		},
		{
			ID:          "CYw3kZ02Hs0563khs1Fj",
			Provider:    "elevenlabs",
			Name:        "Roger",
			Gender:      "male",
			Languages:   []string{"en"},
			Accents:     []string{"us"},
			Roles:       []Role{RoleCustomer},
			Description: "Confident male voice",
		},
	}

	defaults := map[string]map[Role]string{
		"cartesia": {
			RoleSupport:  "fd2ada67-c2d9-4afe-b474-6386b87d8fc3", // Ishan
			RoleCustomer: "791d5162-d5eb-40f0-8189-f19db44611d8", // Ayush
		},
		"openai": {
			RoleSupport:  "onyx",
			RoleCustomer: "echo",
		},
		"elevenlabs": {
			RoleSupport:  "2EiwWnXFnvU5JabPnv8n", // Clyde
			RoleCustomer: "EXAVITQu4vr4xnSDxMaL", // Sarah
		},
	}

	c, err := New(voices, defaults)
	if err != nil {
		// The built-in catalog is validated by tests; this cannot happen
		// at runtime.
		panic(err)
	}
	return c
}
