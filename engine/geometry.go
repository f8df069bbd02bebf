package engine

import (
	"math"

	"DentalChart/tooth"
)

// Chart geometry. The two arches are semicircles of a shared radius around
// the same center x, curving toward each other so the diagram reads as an
// open mouth. Label shifts are empirically tuned so the universal numbers
// stay clear of the markers at the arch extremities and mid-arch.
const (
	chartWidth       = 520.0
	chartHeight      = 440.0
	toothRadius      = 12.0
	archRadius       = 180.0
	upperCenterY     = 185.0
	lowerCenterY     = 255.0
	viewBoxPadY      = 30.0
	upperLabelOffset = -22.0
	lowerLabelOffset = 26.0
)

type archDirection int

const (
	archUp archDirection = iota
	archDown
)

// layoutArch places 16 teeth along a semicircle. t = index/(count-1) maps to
// an angle sweeping from pi to 0, i.e. left to right across the arc; the
// upper arch subtracts the sine term, the lower adds it.
func layoutArch(ids []tooth.ID, centerY float64, direction archDirection, labelOffset float64) []ToothView {
	midX := chartWidth / 2
	views := make([]ToothView, 0, len(ids))
	for index, id := range ids {
		t := float64(index) / float64(len(ids)-1)
		angle := math.Pi * (1 - t)
		x := midX + archRadius*math.Cos(angle)
		y := centerY - archRadius*math.Sin(angle)
		if direction == archDown {
			y = centerY + archRadius*math.Sin(angle)
		}
		number := id.Number()
		shiftX, shiftY := labelShift(number)
		views = append(views, ToothView{
			ID:     id,
			Number: number,
			X:      x,
			Y:      y,
			Radius: toothRadius,
			Label: Label{
				X: x + shiftX,
				Y: y + labelOffset + shiftY,
			},
		})
	}
	return views
}

// labelShift nudges a universal-number label away from its marker based on
// where the tooth sits along the arch.
func labelShift(number int) (float64, float64) {
	upperLeft := number >= 1 && number <= 4
	upperRight := number >= 13 && number <= 16
	lowerLeft := number >= 29 && number <= 32
	lowerRight := number >= 17 && number <= 20
	midLeft := number == 5 || number == 6 || number == 27 || number == 28
	midRight := number == 11 || number == 12 || number == 21 || number == 22

	var shiftX float64
	switch {
	case upperLeft || lowerLeft:
		shiftX = -20
	case upperRight || lowerRight:
		shiftX = 20
	case midLeft:
		shiftX = -8
	case midRight:
		shiftX = 8
	}

	var shiftY float64
	switch {
	case upperLeft || upperRight:
		shiftY = 20
	case lowerLeft || lowerRight:
		shiftY = -20
	}
	return shiftX, shiftY
}

// layoutTeeth returns the 32 tooth views: the upper arch left to right
// (universal numbers 1..16), then the lower arch (32..17).
func layoutTeeth() []ToothView {
	upper := make([]tooth.ID, 0, 16)
	for number := 1; number <= 16; number++ {
		upper = append(upper, tooth.FromNumber(number))
	}
	lower := make([]tooth.ID, 0, 16)
	for number := 32; number >= 17; number-- {
		lower = append(lower, tooth.FromNumber(number))
	}
	views := layoutArch(upper, upperCenterY, archUp, upperLabelOffset)
	return append(views, layoutArch(lower, lowerCenterY, archDown, lowerLabelOffset)...)
}
