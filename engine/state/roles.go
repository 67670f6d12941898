package state

import (
	"strings"

	"github.com/nathoo/replaycore/types"
)

// Role is a starting-character template.
type Role struct {
	Name      string
	Title     string // rank title at experience level 1
	God       string
	HP, Pw    int
	AC        int
	Alignment string
	Attrs     [types.NumAttrs]int // Str, Int, Wis, Dex, Con, Cha
	Kit       []types.Object
}

// Race adds to the role's starting energy.
type Race struct {
	Name   string
	HP, Pw int
}

var foodRation = types.Object{Name: "food ration", Symbol: '%', Quantity: 1, Nutrition: 800, Delay: 5, Edible: true}

var roles = []Role{
	{
		Name: "Valkyrie", Title: "Stripling", God: "Tyr",
		HP: 14, Pw: 1, AC: 6, Alignment: "neutral",
		Attrs: [types.NumAttrs]int{18, 7, 7, 17, 18, 7},
		Kit: []types.Object{
			{Name: "long sword", Symbol: ')', Quantity: 1},
			{Name: "dagger", Symbol: ')', Quantity: 1},
			{Name: "small shield", Symbol: '[', Quantity: 1},
			foodRation,
		},
	},
	{
		Name: "Samurai", Title: "Hatamoto", God: "Amaterasu Omikami",
		HP: 13, Pw: 1, AC: 4, Alignment: "lawful",
		Attrs: [types.NumAttrs]int{17, 8, 8, 17, 17, 6},
		Kit: []types.Object{
			{Name: "katana", Symbol: ')', Quantity: 1},
			{Name: "short sword", Symbol: ')', Quantity: 1},
			{Name: "splint mail", Symbol: '[', Quantity: 1},
			foodRation,
		},
	},
	{
		Name: "Wizard", Title: "Evoker", God: "Thoth",
		HP: 10, Pw: 7, AC: 9, Alignment: "neutral",
		Attrs: [types.NumAttrs]int{7, 18, 12, 10, 14, 8},
		Kit: []types.Object{
			{Name: "quarterstaff", Symbol: ')', Quantity: 1},
			{Name: "cloak of magic resistance", Symbol: '[', Quantity: 1},
			{Name: "apple", Symbol: '%', Quantity: 2, Nutrition: 50, Delay: 1, Edible: true},
		},
	},
	{
		Name: "Barbarian", Title: "Plunderer", God: "Crom",
		HP: 14, Pw: 1, AC: 7, Alignment: "chaotic",
		Attrs: [types.NumAttrs]int{18, 6, 6, 14, 18, 6},
		Kit: []types.Object{
			{Name: "two-handed sword", Symbol: ')', Quantity: 1},
			{Name: "ring mail", Symbol: '[', Quantity: 1},
			foodRation,
		},
	},
	{
		Name: "Healer", Title: "Rhizotomist", God: "Hermes",
		HP: 11, Pw: 1, AC: 8, Alignment: "neutral",
		Attrs: [types.NumAttrs]int{7, 14, 17, 11, 13, 16},
		Kit: []types.Object{
			{Name: "scalpel", Symbol: ')', Quantity: 1},
			{Name: "apple", Symbol: '%', Quantity: 5, Nutrition: 50, Delay: 1, Edible: true},
		},
	},
	{
		Name: "Archeologist", Title: "Digger", God: "Quetzalcoatl",
		HP: 11, Pw: 1, AC: 7, Alignment: "lawful",
		Attrs: [types.NumAttrs]int{13, 14, 10, 14, 14, 8},
		Kit: []types.Object{
			{Name: "bullwhip", Symbol: ')', Quantity: 1},
			{Name: "pick-axe", Symbol: '(', Quantity: 1},
			{Name: "food ration", Symbol: '%', Quantity: 3, Nutrition: 800, Delay: 5, Edible: true},
		},
	},
}

var races = []Race{
	{Name: "human", HP: 2, Pw: 1},
	{Name: "elf", HP: 1, Pw: 2},
	{Name: "dwarf", HP: 4, Pw: 0},
	{Name: "gnome", HP: 1, Pw: 2},
	{Name: "orc", HP: 1, Pw: 1},
}

// LookupRole finds a role by full name or three-letter abbreviation, ignoring case.
func LookupRole(name string) (Role, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range roles {
		full := strings.ToLower(r.Name)
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return r, true
		}
	}
	return Role{}, false
}

// LookupRace finds a race by name; unknown races fall back to human.
func LookupRace(name string) Race {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range races {
		if r.Name == name || (len(name) == 3 && strings.HasPrefix(r.Name, name)) {
			return r
		}
	}
	return races[0]
}
