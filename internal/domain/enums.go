package domain

import (
	"slices"
	"strings"
)

// Person is one of the family members allowed to book the boat.
type Person string

const (
	PersonMama    Person = "Mama"
	PersonTata    Person = "Tata"
	PersonMatiz   Person = "Matiz"
	PersonMroziak Person = "Mroziak"
	PersonPela    Person = "Pela"
)

// Persons lists every valid Person in display order.
var Persons = []Person{PersonMama, PersonTata, PersonMatiz, PersonMroziak, PersonPela}

func (p Person) Valid() bool { return slices.Contains(Persons, p) }

// BookingStatus is the lifecycle state of a booking. Only confirmed bookings
// occupy the calendar.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusPending   BookingStatus = "pending"
	StatusCancelled BookingStatus = "cancelled"
)

var BookingStatuses = []BookingStatus{StatusConfirmed, StatusPending, StatusCancelled}

func (s BookingStatus) Valid() bool { return slices.Contains(BookingStatuses, s) }

// Unit is the measurement unit of an inventory quantity.
type Unit string

const (
	UnitPieces      Unit = "pieces"
	UnitGrams       Unit = "grams"
	UnitKilograms   Unit = "kg"
	UnitLiters      Unit = "liters"
	UnitMilliliters Unit = "ml"
	UnitBottles     Unit = "bottles"
	UnitCans        Unit = "cans"
	UnitPackages    Unit = "packages"
	UnitMeters      Unit = "meters"
	UnitCentimeters Unit = "cm"
)

var Units = []Unit{
	UnitPieces, UnitGrams, UnitKilograms, UnitLiters, UnitMilliliters,
	UnitBottles, UnitCans, UnitPackages, UnitMeters, UnitCentimeters,
}

func (u Unit) Valid() bool { return slices.Contains(Units, u) }

// joinValues renders an enumeration for error messages, e.g. "Mama, Tata".
func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// Errors returned when a value is outside its enumeration.
var (
	ErrInvalidPerson = Invalidf("Invalid person. Must be one of: %s", joinValues(Persons))
	ErrInvalidStatus = Invalidf("Invalid status. Must be one of: %s", joinValues(BookingStatuses))
	ErrInvalidUnit   = Invalidf("Invalid unit type. Must be one of: %s", joinValues(Units))
)
