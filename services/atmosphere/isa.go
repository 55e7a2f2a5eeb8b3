// Copyright (C) 2026 The enginedeck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package atmosphere implements the International Standard Atmosphere
// with analytic altitude derivatives.
//
// Every quantity is returned together with its exact derivative with
// respect to altitude so that components composing atmospheric state
// into a coupled system (true airspeed from Mach, dynamic pressure, and
// so on) can chain-rule through it instead of finite-differencing.
//
// The model covers the troposphere (lapse-rate layer) and the lower
// stratosphere (isothermal layer) and is smooth within each layer. Above
// 20 km the isothermal expressions are extrapolated; values there are
// outside the fitted standard but remain continuous, matching how the
// engine decks treat extrapolation.
//
// All functions are pure; the package holds no state.
package atmosphere

import "math"

// Sea-level standard constants (SI).
const (
	// SeaLevelTemperature is the ISA sea-level temperature, K.
	SeaLevelTemperature = 288.15

	// SeaLevelPressure is the ISA sea-level pressure, Pa.
	SeaLevelPressure = 101325.0

	// LapseRate is the tropospheric temperature lapse rate, K/m.
	LapseRate = 0.0065

	// TropopauseAltitude is the altitude of the tropopause, m.
	TropopauseAltitude = 11000.0

	// gravity is standard gravitational acceleration, m/s^2.
	gravity = 9.80665

	// gasConstant is the specific gas constant of air, J/(kg K).
	gasConstant = 287.058

	// gamma is the ratio of specific heats of air.
	gamma = 1.4
)

// Tropopause state, fixed by the constants above.
var (
	tropopauseTemperature = SeaLevelTemperature - LapseRate*TropopauseAltitude
	tropopausePressure    = SeaLevelPressure * math.Pow(tropopauseTemperature/SeaLevelTemperature, gravity/(gasConstant*LapseRate))
)

// State bundles the atmospheric quantities at one altitude with their
// altitude derivatives. Transient; valid only for the call that
// produced it.
type State struct {
	// Temperature in K and its derivative, K/m.
	Temperature  float64
	TemperatureD float64

	// Pressure in Pa and its derivative, Pa/m.
	Pressure  float64
	PressureD float64

	// Density in kg/m^3 and its derivative, kg/m^4.
	Density  float64
	DensityD float64

	// SpeedOfSound in m/s and its derivative, 1/s.
	SpeedOfSound  float64
	SpeedOfSoundD float64
}

// Temperature returns the ISA temperature at a geometric altitude in
// meters, with its altitude derivative.
func Temperature(altM float64) (value, deriv float64) {
	if altM < TropopauseAltitude {
		return SeaLevelTemperature - LapseRate*altM, -LapseRate
	}
	return tropopauseTemperature, 0
}

// Pressure returns the ISA pressure at a geometric altitude in meters,
// with its altitude derivative. In both layers dp/dh = -rho * g.
func Pressure(altM float64) (value, deriv float64) {
	t, _ := Temperature(altM)
	var p float64
	if altM < TropopauseAltitude {
		p = SeaLevelPressure * math.Pow(t/SeaLevelTemperature, gravity/(gasConstant*LapseRate))
	} else {
		p = tropopausePressure * math.Exp(-gravity*(altM-TropopauseAltitude)/(gasConstant*tropopauseTemperature))
	}
	return p, -gravity * p / (gasConstant * t)
}

// Density returns the ISA density at a geometric altitude in meters,
// with its altitude derivative, via the ideal gas law rho = p/(R T).
func Density(altM float64) (value, deriv float64) {
	t, dt := Temperature(altM)
	p, dp := Pressure(altM)
	rho := p / (gasConstant * t)
	return rho, rho * (dp/p - dt/t)
}

// SpeedOfSound returns the ISA speed of sound at a geometric altitude
// in meters, with its altitude derivative: a = sqrt(gamma R T).
func SpeedOfSound(altM float64) (value, deriv float64) {
	t, dt := Temperature(altM)
	a := math.Sqrt(gamma * gasConstant * t)
	return a, gamma * gasConstant * dt / (2 * a)
}

// At evaluates the full atmospheric state at a geometric altitude in
// meters.
func At(altM float64) State {
	var s State
	s.Temperature, s.TemperatureD = Temperature(altM)
	s.Pressure, s.PressureD = Pressure(altM)
	s.Density, s.DensityD = Density(altM)
	s.SpeedOfSound, s.SpeedOfSoundD = SpeedOfSound(altM)
	return s
}
