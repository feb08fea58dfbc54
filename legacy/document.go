// Package legacy translates simulations to the JSON input of the previous
// solver generation and loads that solver's monitor output back.
package legacy

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document is the top level legacy solver input
type Document struct {
	Parameters Parameters  `json:"parameters"`
	Materials  []Material  `json:"materials"`
	Structures []Structure `json:"structures"`
	Sources    []Source    `json:"sources"`
	Monitors   []Monitor   `json:"monitors"`
}

// WriteJSON encodes the document with two space indentation
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode legacy document: %w", err)
	}
	return nil
}

type PMLLayer struct {
	Profile string `json:"profile"`
	NLayers int    `json:"Nlayers"`
}

type Parameters struct {
	UnitLength    string     `json:"unit_length"`
	UnitFrequency string     `json:"unit_frequency"`
	UnitTime      string     `json:"unit_time"`
	XCent         float64    `json:"x_cent"`
	YCent         float64    `json:"y_cent"`
	ZCent         float64    `json:"z_cent"`
	XSpan         float64    `json:"x_span"`
	YSpan         float64    `json:"y_span"`
	ZSpan         float64    `json:"z_span"`
	MeshStep      float64    `json:"mesh_step"`
	Symmetries    [3]int     `json:"symmetries"`
	PMLLayers     []PMLLayer `json:"pml_layers"`
	RunTime       float64    `json:"run_time"` // ps
	Courant       float64    `json:"courant"`
	Shutoff       float64    `json:"shutoff"`
	Subpixel      bool       `json:"subpixel"`
}

// Material is a pole-residue medium. Only non-dispersive media are exported
// so Poles is always empty.
type Material struct {
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Permittivity [3]float64   `json:"permittivity"`
	Conductivity [3]float64   `json:"conductivity"`
	Poles        [][4]float64 `json:"poles"`
}

// Structure is one of BoxStructure, SphereStructure, CylinderStructure or
// PolySlabStructure
type Structure interface {
	StructureType() string
}

type StructureBase struct {
	Name     string `json:"name"`
	MatIndex int    `json:"mat_index"`
	Type     string `json:"type"`
}

func (s StructureBase) StructureType() string { return s.Type }

type BoxStructure struct {
	StructureBase
	XCent float64 `json:"x_cent"`
	YCent float64 `json:"y_cent"`
	ZCent float64 `json:"z_cent"`
	XSpan float64 `json:"x_span"`
	YSpan float64 `json:"y_span"`
	ZSpan float64 `json:"z_span"`
}

type SphereStructure struct {
	StructureBase
	XCent  float64 `json:"x_cent"`
	YCent  float64 `json:"y_cent"`
	ZCent  float64 `json:"z_cent"`
	Radius float64 `json:"radius"`
}

type CylinderStructure struct {
	StructureBase
	XCent  float64 `json:"x_cent"`
	YCent  float64 `json:"y_cent"`
	ZCent  float64 `json:"z_cent"`
	Axis   string  `json:"axis"`
	Radius float64 `json:"radius"`
	Height float64 `json:"height"`
}

type PolySlabStructure struct {
	StructureBase
	Vertices [][2]float64 `json:"vertices"`
	ZCent    float64      `json:"z_cent"`
	ZSize    float64      `json:"z_size"`
}

type SourceTime struct {
	Type      string  `json:"type"`
	Frequency float64 `json:"frequency"` // THz
	FWidth    float64 `json:"fwidth"`    // THz
	Offset    float64 `json:"offset"`
	Phase     float64 `json:"phase"`
}

type Source struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	SourceTime SourceTime `json:"source_time"`
	Center     [3]float64 `json:"center"`
	Size       [3]float64 `json:"size"`
	Component  string     `json:"component"`
	Amplitude  float64    `json:"amplitude"`
}

// Monitor is either a TimeMonitor or a FrequencyMonitor
type Monitor interface {
	MonitorType() string
}

type MonitorBase struct {
	Name  string  `json:"name"`
	XCent float64 `json:"x_cent"`
	YCent float64 `json:"y_cent"`
	ZCent float64 `json:"z_cent"`
	XSpan float64 `json:"x_span"`
	YSpan float64 `json:"y_span"`
	ZSpan float64 `json:"z_span"`
	Type  string  `json:"type"`
}

func (m MonitorBase) MonitorType() string { return m.Type }

type TimeMonitor struct {
	MonitorBase
	TStart float64  `json:"t_start"`
	TStop  float64  `json:"t_stop"`
	TStep  *float64 `json:"t_step"`
	Store  []string `json:"store"`
}

type FrequencyMonitor struct {
	MonitorBase
	Frequency   []float64 `json:"frequency"` // THz
	Store       []string  `json:"store"`
	Interpolate bool      `json:"interpolate"`
}
