package core

// applyGesture binds recognized gestures to model mutations. Short
// up/down steps the assist level and repeats keep stepping while
// held; menu cycles pages; combos toggle lights, cycle the profile or
// reset the trip; a long press of down engages walk mode as long as
// the button stays held.
func (s *System) applyGesture(e Event) {
	m := &s.Model
	switch e.Arg {
	case GestureShortUp, GestureRepeatUp:
		m.AdjustAssist(+1)

	case GestureShortDown:
		m.AdjustAssist(-1)

	case GestureRepeatDown:
		// Down repeats adjust assist unless walk mode holds the
		// button for its deadman.
		if !s.walkHeld {
			m.AdjustAssist(-1)
		}

	case GestureShortMenu:
		m.CyclePage()

	case GestureLongMenu:
		// Long menu toggles the settings page.
		if m.Page == PageSettings {
			m.Page = PageMain
		} else {
			m.Page = PageSettings
		}

	case GestureLongPower:
		m.PowerOff = !m.PowerOff

	case GestureLongDown:
		s.walkHeld = true

	case GestureComboUpDown:
		m.Lights = !m.Lights

	case GestureComboUpMenu:
		m.CycleProfile()

	case GestureComboDownMenu:
		m.ResetTrip()
	}
}

// updateWalkMode keeps walk mode alive only while the down button
// stays held after its long press: a deadman, cleared the moment the
// word releases.
func (s *System) updateWalkMode() {
	if s.walkHeld && s.Buttons.Held()&BtnDown == 0 {
		s.walkHeld = false
	}
	s.Model.WalkMode = s.walkHeld
}
