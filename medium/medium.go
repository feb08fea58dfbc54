package medium

import (
	"errors"
	"fmt"
)

// Kind names a material variant. It keys the plain -> differentiable
// conversion tables.
type Kind string

const (
	KindMedium      Kind = "Medium"
	KindAnisotropic Kind = "AnisotropicMedium"
	KindCustom      Kind = "CustomMedium"
)

var ErrInvalidMedium = errors.New("invalid medium")

// Material is any plain (non-differentiable) medium
type Material interface {
	Kind() Kind
	Validate() error
}

// Medium is a non-dispersive isotropic medium
type Medium struct {
	Name         string
	Permittivity float64 // relative
	Conductivity float64 // S/um
}

func (m *Medium) Kind() Kind { return KindMedium }

// Validate requires a relative permittivity of at least one and a
// non-negative conductivity
func (m *Medium) Validate() error {
	if m.Permittivity < 1 {
		return fmt.Errorf("permittivity %g < 1: %w", m.Permittivity, ErrInvalidMedium)
	}
	if m.Conductivity < 0 {
		return fmt.Errorf("conductivity %g < 0: %w", m.Conductivity, ErrInvalidMedium)
	}
	return nil
}

// AnisotropicMedium holds one isotropic medium per diagonal tensor entry
type AnisotropicMedium struct {
	Name       string
	XX, YY, ZZ *Medium
}

func (a *AnisotropicMedium) Kind() Kind { return KindAnisotropic }

// Components returns xx, yy, zz in axis order
func (a *AnisotropicMedium) Components() [3]*Medium {
	return [3]*Medium{a.XX, a.YY, a.ZZ}
}

func (a *AnisotropicMedium) Validate() error {
	for i, c := range a.Components() {
		if c == nil {
			return fmt.Errorf("component %s is nil: %w", DiagonalNames[i], ErrInvalidMedium)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("component %s: %w", DiagonalNames[i], err)
		}
	}
	return nil
}

// CustomMedium has a spatially varying diagonal permittivity
type CustomMedium struct {
	Name       string
	EpsDataset PermittivityDataset
}

func (c *CustomMedium) Kind() Kind { return KindCustom }

func (c *CustomMedium) Validate() error {
	if err := c.EpsDataset.Validate(); err != nil {
		return err
	}
	for i, arr := range c.EpsDataset.Components() {
		if arr == nil {
			continue
		}
		for _, v := range arr.Values {
			if v < 1 {
				return fmt.Errorf("%s holds permittivity %g < 1: %w", DatasetNames[i], v, ErrInvalidMedium)
			}
		}
	}
	return nil
}

// DiagonalNames labels the diagonal tensor entries in axis order
var DiagonalNames = [3]string{"xx", "yy", "zz"}
