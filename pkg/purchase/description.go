// Package purchase encodes the ticket purchase reference that travels through
// the payment provider and comes back with the payment confirmation.
package purchase

import (
	"fmt"
	"strconv"

	"github.com/dlclark/regexp2"
)

const noDraw = "None"

var descriptionRegexp = regexp2.MustCompile(
	`^Radio ticket purchase - Station: (?<station>\d+), Draw: (?<draw>\d+|None), Quantity: (?<quantity>\d+)$`,
	regexp2.None,
)

type Description struct {
	StationID int64
	DrawID    *int64
	Quantity  int
}

func Encode(d Description) string {
	draw := noDraw
	if d.DrawID != nil {
		draw = strconv.FormatInt(*d.DrawID, 10)
	}

	return fmt.Sprintf("Radio ticket purchase - Station: %d, Draw: %s, Quantity: %d",
		d.StationID, draw, d.Quantity)
}

func Decode(s string) (Description, error) {
	m, err := descriptionRegexp.FindStringMatch(s)
	if err != nil {
		return Description{}, err
	}

	if m == nil {
		return Description{}, fmt.Errorf("invalid purchase description %q", s)
	}

	stationID, err := strconv.ParseInt(m.GroupByName("station").String(), 10, 64)
	if err != nil {
		return Description{}, fmt.Errorf("invalid station: %w", err)
	}

	quantity, err := strconv.Atoi(m.GroupByName("quantity").String())
	if err != nil {
		return Description{}, fmt.Errorf("invalid quantity: %w", err)
	}

	d := Description{StationID: stationID, Quantity: quantity}
	if draw := m.GroupByName("draw").String(); draw != noDraw {
		drawID, err := strconv.ParseInt(draw, 10, 64)
		if err != nil {
			return Description{}, fmt.Errorf("invalid draw: %w", err)
		}
		d.DrawID = &drawID
	}

	return d, nil
}
