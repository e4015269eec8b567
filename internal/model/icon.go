package model

import (
	"fmt"
	"sort"
	"strings"
)

// Icon is a symbolic icon name. Every icon maps to a terminal glyph.
type Icon string

// Icons offered for categories and savings goals.
const (
	IconUtensilsCrossed Icon = "UtensilsCrossed"
	IconCoffee          Icon = "Coffee"
	IconCar             Icon = "Car"
	IconShirt           Icon = "Shirt"
	IconGamepad2        Icon = "Gamepad2"
	IconReceipt         Icon = "Receipt"
	IconHeart           Icon = "Heart"
	IconMoreHorizontal  Icon = "MoreHorizontal"
	IconShoppingCart    Icon = "ShoppingCart"
	IconHome            Icon = "Home"
	IconPlane           Icon = "Plane"
	IconBook            Icon = "Book"
	IconMusic           Icon = "Music"
	IconFilm            Icon = "Film"
	IconDumbbell        Icon = "Dumbbell"
	IconGift            Icon = "Gift"
	IconSmartphone      Icon = "Smartphone"
	IconLaptop          Icon = "Laptop"
	IconWifi            Icon = "Wifi"
	IconZap             Icon = "Zap"
	IconDroplet         Icon = "Droplet"
	IconFuel            Icon = "Fuel"
	IconBus             Icon = "Bus"
	IconTrain           Icon = "Train"
	IconBike            Icon = "Bike"
	IconPizza           Icon = "Pizza"
	IconIceCream        Icon = "IceCream"
	IconWine            Icon = "Wine"
	IconStethoscope     Icon = "Stethoscope"
	IconPill            Icon = "Pill"
	IconScissors        Icon = "Scissors"
	IconWrench          Icon = "Wrench"
	IconHammer          Icon = "Hammer"
	IconPaintBucket     Icon = "PaintBucket"
	IconPalette         Icon = "Palette"
	IconCamera          Icon = "Camera"
	IconHeadphones      Icon = "Headphones"
	IconTv              Icon = "Tv"
	IconWatch           Icon = "Watch"
	IconGlasses         Icon = "Glasses"
	IconUmbrella        Icon = "Umbrella"
	IconBriefcase       Icon = "Briefcase"
	IconGraduationCap   Icon = "GraduationCap"
	IconBaby            Icon = "Baby"
	IconDog             Icon = "Dog"
	IconCat             Icon = "Cat"
	IconTrees           Icon = "Trees"
	IconFlower          Icon = "Flower"
	IconPiggyBank       Icon = "PiggyBank"

	// Achievement badges.
	IconFootprints    Icon = "Footprints"
	IconPencil        Icon = "Pencil"
	IconScrollText    Icon = "ScrollText"
	IconFlame         Icon = "Flame"
	IconCalendarRange Icon = "CalendarRange"
	IconTrophy        Icon = "Trophy"
	IconCoins         Icon = "Coins"
	IconTarget        Icon = "Target"
)

var iconGlyphs = map[Icon]string{
	IconUtensilsCrossed: "🍴",
	IconCoffee:          "☕",
	IconCar:             "🚗",
	IconShirt:           "👕",
	IconGamepad2:        "🎮",
	IconReceipt:         "🧾",
	IconHeart:           "❤️",
	IconMoreHorizontal:  "⋯",
	IconShoppingCart:    "🛒",
	IconHome:            "🏠",
	IconPlane:           "✈️",
	IconBook:            "📖",
	IconMusic:           "🎵",
	IconFilm:            "🎬",
	IconDumbbell:        "🏋️",
	IconGift:            "🎁",
	IconSmartphone:      "📱",
	IconLaptop:          "💻",
	IconWifi:            "📶",
	IconZap:             "⚡",
	IconDroplet:         "💧",
	IconFuel:            "⛽",
	IconBus:             "🚌",
	IconTrain:           "🚆",
	IconBike:            "🚲",
	IconPizza:           "🍕",
	IconIceCream:        "🍦",
	IconWine:            "🍷",
	IconStethoscope:     "🩺",
	IconPill:            "💊",
	IconScissors:        "✂️",
	IconWrench:          "🔧",
	IconHammer:          "🔨",
	IconPaintBucket:     "🪣",
	IconPalette:         "🎨",
	IconCamera:          "📷",
	IconHeadphones:      "🎧",
	IconTv:              "📺",
	IconWatch:           "⌚",
	IconGlasses:         "👓",
	IconUmbrella:        "☂️",
	IconBriefcase:       "💼",
	IconGraduationCap:   "🎓",
	IconBaby:            "👶",
	IconDog:             "🐕",
	IconCat:             "🐈",
	IconTrees:           "🌳",
	IconFlower:          "🌸",
	IconPiggyBank:       "🐷",
	IconFootprints:      "👣",
	IconPencil:          "✏️",
	IconScrollText:      "📜",
	IconFlame:           "🔥",
	IconCalendarRange:   "📅",
	IconTrophy:          "🏆",
	IconCoins:           "🪙",
	IconTarget:          "🎯",
}

// Valid reports whether the icon is part of the known icon set.
func (i Icon) Valid() bool {
	_, ok := iconGlyphs[i]
	return ok
}

// Glyph returns the terminal glyph for the icon, or a bullet for unknown icons.
func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return "•"
}

// ParseIcon resolves a name to an Icon, ignoring case.
func ParseIcon(name string) (Icon, error) {
	for icon := range iconGlyphs {
		if strings.EqualFold(string(icon), strings.TrimSpace(name)) {
			return icon, nil
		}
	}
	return "", fmt.Errorf("unknown icon %q", name)
}

// Icons returns every known icon name in sorted order.
func Icons() []Icon {
	icons := make([]Icon, 0, len(iconGlyphs))
	for icon := range iconGlyphs {
		icons = append(icons, icon)
	}
	sort.Slice(icons, func(i, j int) bool { return icons[i] < icons[j] })
	return icons
}
