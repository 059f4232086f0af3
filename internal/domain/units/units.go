// Package units convierte cantidades entre unidades de una misma familia física
// (masa, volumen, unidades contables) y deriva costos reales a partir de ellas.
// Todas las operaciones usan decimal; no hay aritmética en punto flotante.
package units

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrIncompatibleUnitFamily se devuelve al convertir entre familias distintas (ej. KG -> L).
var ErrIncompatibleUnitFamily = errors.New("unidades de familias incompatibles")

// ErrUnknownUnit unidad no reconocida.
var ErrUnknownUnit = errors.New("unidad desconocida")

// Family agrupa unidades convertibles entre sí por una razón fija.
type Family string

const (
	FamilyMass   Family = "MASS"
	FamilyVolume Family = "VOLUME"
	FamilyUnit   Family = "UNIT"
)

// Unit código de unidad persistido en recetas e ingredientes.
type Unit string

const (
	Milligram Unit = "MG"
	Gram      Unit = "G"
	Kilogram  Unit = "KG"
	Pound     Unit = "LB"
	Ounce     Unit = "OZ"

	Milliliter Unit = "ML"
	Centiliter Unit = "CL"
	Liter      Unit = "L"

	Piece Unit = "UNIT"
)

type definition struct {
	family Family
	ratio  decimal.Decimal // cuántas unidades base hay en 1 de esta unidad
}

// Base de masa = gramo, base de volumen = mililitro, base contable = unidad.
var definitions = map[Unit]definition{
	Milligram:  {FamilyMass, decimal.RequireFromString("0.001")},
	Gram:       {FamilyMass, decimal.NewFromInt(1)},
	Kilogram:   {FamilyMass, decimal.NewFromInt(1000)},
	Pound:      {FamilyMass, decimal.RequireFromString("453.59237")},
	Ounce:      {FamilyMass, decimal.RequireFromString("28.349523125")},
	Milliliter: {FamilyVolume, decimal.NewFromInt(1)},
	Centiliter: {FamilyVolume, decimal.NewFromInt(10)},
	Liter:      {FamilyVolume, decimal.NewFromInt(1000)},
	Piece:      {FamilyUnit, decimal.NewFromInt(1)},
}

// All devuelve las unidades soportadas.
func All() []Unit {
	return []Unit{Milligram, Gram, Kilogram, Pound, Ounce, Milliliter, Centiliter, Liter, Piece}
}

// Valid indica si la unidad está registrada.
func (u Unit) Valid() bool {
	_, ok := definitions[u]
	return ok
}

// Family devuelve la familia física de la unidad ("" si no es válida).
func (u Unit) Family() Family {
	return definitions[u].family
}

// Ratio devuelve la razón respecto a la unidad base de su familia.
func (u Unit) Ratio() decimal.Decimal {
	d, ok := definitions[u]
	if !ok {
		return decimal.Zero
	}
	return d.ratio
}

func (u Unit) String() string { return string(u) }

// SameFamily indica si dos unidades válidas son convertibles entre sí.
func SameFamily(a, b Unit) bool {
	return a.Valid() && b.Valid() && a.Family() == b.Family()
}

// Normalize expresa quantity (en unit) en la unidad base de su familia.
func Normalize(quantity decimal.Decimal, unit Unit) decimal.Decimal {
	return quantity.Mul(unit.Ratio())
}

// Convert pasa quantity de from a to. Falla con ErrIncompatibleUnitFamily si las familias difieren.
// El resultado conserva precisión completa; el redondeo es responsabilidad de quien presenta el dato.
func Convert(quantity decimal.Decimal, from, to Unit) (decimal.Decimal, error) {
	if !from.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	if !to.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	if from.Family() != to.Family() {
		return decimal.Zero, fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrIncompatibleUnitFamily, from, from.Family(), to, to.Family())
	}
	if from == to {
		return quantity, nil
	}
	return Normalize(quantity, from).Div(to.Ratio()), nil
}

// RealCost costo de consumir quantity (en from) de un insumo cuyo costo está expresado por stockUnit.
func RealCost(quantity decimal.Decimal, from, stockUnit Unit, costPerStockUnit decimal.Decimal) (decimal.Decimal, error) {
	converted, err := Convert(quantity, from, stockUnit)
	if err != nil {
		return decimal.Zero, err
	}
	return converted.Mul(costPerStockUnit), nil
}

var aliases = map[string]Unit{
	"mg": Milligram, "miligramo": Milligram, "miligramos": Milligram, "milligram": Milligram, "milligrams": Milligram,
	"g": Gram, "gr": Gram, "grs": Gram, "gramo": Gram, "gramos": Gram, "gram": Gram, "grams": Gram,
	"kg": Kilogram, "kgs": Kilogram, "kilo": Kilogram, "kilos": Kilogram, "kilogramo": Kilogram, "kilogramos": Kilogram, "kilogram": Kilogram, "kilograms": Kilogram,
	"lb": Pound, "lbs": Pound, "libra": Pound, "libras": Pound, "pound": Pound, "pounds": Pound,
	"oz": Ounce, "onza": Ounce, "onzas": Ounce, "ounce": Ounce, "ounces": Ounce,
	"ml": Milliliter, "mililitro": Milliliter, "mililitros": Milliliter, "milliliter": Milliliter, "milliliters": Milliliter, "millilitre": Milliliter,
	"cl": Centiliter, "centilitro": Centiliter, "centilitros": Centiliter, "centiliter": Centiliter,
	"l": Liter, "lt": Liter, "lts": Liter, "litro": Liter, "litros": Liter, "liter": Liter, "liters": Liter, "litre": Liter, "litres": Liter,
	"unit": Piece, "units": Piece, "und": Piece, "un": Piece, "unidad": Piece, "unidades": Piece, "pza": Piece, "pieza": Piece, "piezas": Piece, "pcs": Piece,
}

// Parse acepta el código ("KG") o un alias en español/inglés, sin distinguir mayúsculas ni tildes.
func Parse(s string) (Unit, error) {
	key := fold(s)
	if key == "" {
		return "", fmt.Errorf("%w: vacía", ErrUnknownUnit)
	}
	if u := Unit(strings.ToUpper(key)); u.Valid() {
		return u, nil
	}
	if u, ok := aliases[key]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// fold pasa a minúsculas y elimina tildes ("Kilógramo" -> "kilogramo").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
