// internal/models/car.go
package models

import (
	"fmt"
	"strings"
)

// DocumentType is the kind of registration papers the vehicle comes with.
type DocumentType string

const (
	DocumentStandardCard DocumentType = "StandardCard"
	DocumentYellowCard   DocumentType = "YellowCard"
	DocumentLicense      DocumentType = "License/Delay"
)

type Transmission string

const (
	TransmissionManual        Transmission = "Manual"
	TransmissionAutomatic     Transmission = "Automatic"
	TransmissionSemiAutomatic Transmission = "SemiAutomatic"
)

type FuelType string

const (
	FuelGasoline FuelType = "Gasoline"
	FuelDiesel   FuelType = "Diesel"
	FuelLPG      FuelType = "LPG"
)

// RawInput is one vehicle description as entered on the estimation form.
type RawInput struct {
	Year         int          `json:"year"`
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Mileage      int          `json:"mileage"`
	Documents    DocumentType `json:"documentType"`
	Transmission Transmission `json:"transmission"`
	Fuel         FuelType     `json:"fuel"`
}

// Form labels used by the marketplace the training data was scraped from.
var (
	documentAliases = map[string]DocumentType{
		"standardcard":        DocumentStandardCard,
		"carte grise / safia": DocumentStandardCard,
		"yellowcard":          DocumentYellowCard,
		"carte jaune":         DocumentYellowCard,
		"license/delay":       DocumentLicense,
		"license":             DocumentLicense,
		"licence / délai":     DocumentLicense,
	}

	transmissionAliases = map[string]Transmission{
		"manual":           TransmissionManual,
		"manuelle":         TransmissionManual,
		"automatic":        TransmissionAutomatic,
		"automatique":      TransmissionAutomatic,
		"semiautomatic":    TransmissionSemiAutomatic,
		"semi automatique": TransmissionSemiAutomatic,
	}

	fuelAliases = map[string]FuelType{
		"gasoline": FuelGasoline,
		"essence":  FuelGasoline,
		"diesel":   FuelDiesel,
		"lpg":      FuelLPG,
		"gpl":      FuelLPG,
	}
)

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func ParseDocumentType(s string) (DocumentType, error) {
	if v, ok := documentAliases[normalizeLabel(s)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

func ParseTransmission(s string) (Transmission, error) {
	if v, ok := transmissionAliases[normalizeLabel(s)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown transmission %q", s)
}

func ParseFuelType(s string) (FuelType, error) {
	if v, ok := fuelAliases[normalizeLabel(s)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown fuel type %q", s)
}

// DocumentTypes lists the canonical codes in form order.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentStandardCard, DocumentYellowCard, DocumentLicense}
}

func Transmissions() []Transmission {
	return []Transmission{TransmissionManual, TransmissionAutomatic, TransmissionSemiAutomatic}
}

func FuelTypes() []FuelType {
	return []FuelType{FuelGasoline, FuelDiesel, FuelLPG}
}
