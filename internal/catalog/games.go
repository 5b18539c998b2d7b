// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

// games is the store catalog. IDs are stable; the browse, cart and
// wishlist views key on them.
var games = []Game{
	{
		ID:          1,
		Title:       "Cyber Nexus 2077",
		Price:       59.99,
		Category:    "Action",
		Tags:        []string{"Open World", "RPG", "Cyberpunk"},
		Description: "Dive into a neon-lit dystopian future where your choices shape the city.",
		Rating:      4.5,
		ReleaseDate: "2024-03-15",
		Developer:   "NeonDream Studios",
		ImageURL:    "images/CyberNexus2077.jpg",
	},
	{
		ID:          2,
		Title:       "Mystic Legends",
		Price:       39.99,
		Category:    "RPG",
		Tags:        []string{"Fantasy", "Story-Rich", "Magic"},
		Description: "Embark on an epic quest through magical realms filled with ancient secrets.",
		Rating:      4.8,
		ReleaseDate: "2024-01-20",
		Developer:   "Arcane Games",
		ImageURL:    "images/MysticLegends.jpg",
	},
	{
		ID:          3,
		Title:       "Velocity Racer X",
		Price:       29.99,
		Category:    "Racing",
		Tags:        []string{"Fast-Paced", "Multiplayer", "Competitive"},
		Description: "Experience high-octane racing with gravity-defying tracks and insane speeds.",
		Rating:      4.3,
		ReleaseDate: "2024-02-10",
		Developer:   "SpeedForce Interactive",
		ImageURL:    "images/VelocityRacerX.jpg",
	},
	{
		ID:          4,
		Title:       "Starbound Odyssey",
		Price:       49.99,
		Category:    "Adventure",
		Tags:        []string{"Space", "Exploration", "Sci-Fi"},
		Description: "Explore infinite galaxies, discover alien civilizations, and build your empire.",
		Rating:      4.7,
		ReleaseDate: "2023-11-05",
		Developer:   "Cosmic Studios",
		ImageURL:    "images/StarboundOdyssy.jpg",
	},
	{
		ID:          5,
		Title:       "Shadow Assassin",
		Price:       44.99,
		Category:    "Action",
		Tags:        []string{"Stealth", "Ninja", "Dark"},
		Description: "Master the art of silent takedowns in this noir stealth-action masterpiece.",
		Rating:      4.6,
		ReleaseDate: "2024-04-01",
		Developer:   "ShadowBlade Games",
		ImageURL:    "images/ShadowAssassin.jpg",
	},
	{
		ID:          6,
		Title:       "Kingdom Builders",
		Price:       34.99,
		Category:    "Strategy",
		Tags:        []string{"Medieval", "City-Building", "Management"},
		Description: "Build your kingdom from scratch and lead your people to prosperity.",
		Rating:      4.4,
		ReleaseDate: "2023-12-15",
		Developer:   "Empire Interactive",
		ImageURL:    "images/KingdomBuilders.jpg",
	},
	{
		ID:          7,
		Title:       "Pixel Dungeon Quest",
		Price:       14.99,
		Category:    "Indie",
		Tags:        []string{"Roguelike", "Pixel Art", "Dungeon Crawler"},
		Description: "A charming pixel-art roguelike with endless dungeons and procedural generation.",
		Rating:      4.2,
		ReleaseDate: "2024-01-08",
		Developer:   "RetroPixel Studios",
		ImageURL:    "images/PixelDungeonQuest.jpg",
	},
	{
		ID:          8,
		Title:       "Eternal Warfare",
		Price:       0,
		Category:    "Action",
		Tags:        []string{"FPS", "Multiplayer", "Free-to-Play"},
		Description: "Join millions in this intense free-to-play tactical shooter.",
		Rating:      4.1,
		ReleaseDate: "2023-10-20",
		Developer:   "WarZone Studios",
		ImageURL:    "images/EternalWarfare.jpg",
	},
}
