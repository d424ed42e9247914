// SPDX-License-Identifier: GPL-2.0-or-later

package maps

import (
	"strings"

	"q3level/filesystem"
)

type Map struct {
	ID   string
	Name string
}

var (
	Q3DM0  = Map{"q3dm0", "Introduction"}
	Q3DM1  = Map{"q3dm1", "Arena Gate"}
	Q3DM2  = Map{"q3dm2", "House of Pain"}
	Q3DM3  = Map{"q3dm3", "Arena of Death"}
	Q3DM4  = Map{"q3dm4", "The Place of Many Deaths"}
	Q3DM5  = Map{"q3dm5", "The Forgotten Place"}
	Q3DM6  = Map{"q3dm6", "The Camping Grounds"}
	Q3DM7  = Map{"q3dm7", "Temple of Retribution"}
	Q3DM8  = Map{"q3dm8", "Brimstone Abbey"}
	Q3DM9  = Map{"q3dm9", "Hero's Keep"}
	Q3DM10 = Map{"q3dm10", "The Nameless Place"}
	Q3DM11 = Map{"q3dm11", "Deva Station"}
	Q3DM12 = Map{"q3dm12", "The Dredwerkz"}
	Q3DM13 = Map{"q3dm13", "Lost World"}
	Q3DM14 = Map{"q3dm14", "Grim Dungeons"}
	Q3DM15 = Map{"q3dm15", "Demon Keep"}
	Q3DM16 = Map{"q3dm16", "The Bouncy Map"}
	Q3DM17 = Map{"q3dm17", "The Longest Yard"}
	Q3DM18 = Map{"q3dm18", "Space Chamber"}
	Q3DM19 = Map{"q3dm19", "Apocalypse Void"}

	Q3Tourney1 = Map{"q3tourney1", "Power Station 0218"}
	Q3Tourney2 = Map{"q3tourney2", "The Proving Grounds"}
	Q3Tourney3 = Map{"q3tourney3", "Hell's Gate"}
	Q3Tourney4 = Map{"q3tourney4", "Vertical Vengeance"}
	Q3Tourney5 = Map{"q3tourney5", "Fatal Instinct"}
	Q3Tourney6 = Map{"q3tourney6", "The Very End of You"}

	Q3CTF1 = Map{"q3ctf1", "Dueling Keeps"}
	Q3CTF2 = Map{"q3ctf2", "Troubled Waters"}
	Q3CTF3 = Map{"q3ctf3", "The Stronghold"}
	Q3CTF4 = Map{"q3ctf4", "Space CTF"}
)

// Tier is a step of the single player ladder.
type Tier struct {
	Name string
	Maps []Map
}

var (
	T0  = Tier{"Training", []Map{Q3DM0}}
	T1  = Tier{"Tier 1", []Map{Q3DM1, Q3DM2, Q3DM3, Q3Tourney1}}
	T2  = Tier{"Tier 2", []Map{Q3DM4, Q3DM5, Q3DM6, Q3Tourney2}}
	T3  = Tier{"Tier 3", []Map{Q3DM7, Q3DM8, Q3DM9, Q3Tourney3}}
	T4  = Tier{"Tier 4", []Map{Q3DM10, Q3DM11, Q3DM12, Q3Tourney4}}
	T5  = Tier{"Tier 5", []Map{Q3DM13, Q3DM14, Q3DM15, Q3Tourney5}}
	T6  = Tier{"Tier 6", []Map{Q3DM16, Q3DM17, Q3DM18, Q3Tourney6}}
	T7  = Tier{"Final Tier", []Map{Q3DM19}}
	CTF = Tier{"Capture the Flag", []Map{Q3CTF1, Q3CTF2, Q3CTF3, Q3CTF4}}
)

func Ladder() []Tier {
	return []Tier{T0, T1, T2, T3, T4, T5, T6, T7}
}

func All() []Tier {
	return append(Ladder(), CTF)
}

var byID = func() map[string]Map {
	m := make(map[string]Map)
	for _, t := range All() {
		for _, mp := range t.Maps {
			m[mp.ID] = mp
		}
	}
	return m
}()

// Lookup finds the map stored at path, e.g. 'maps/q3dm17.bsp'.
func Lookup(path string) (Map, bool) {
	m, ok := byID[strings.ToLower(filesystem.Base(path))]
	return m, ok
}

// Title returns the name of the map at path or "" for unknown maps.
func Title(path string) string {
	m, _ := Lookup(path)
	return m.Name
}
