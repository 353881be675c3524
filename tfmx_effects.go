// tfmx_effects.go - per-controller, per-tick effects processor

package tfmx

// tickEffects implements §4.6 for controller idx, then commits the
// resulting period/sample-region/volume into its hardware channel.
func (e *Engine) tickEffects(idx int) {
	c := &e.controllers[idx]
	hw := &e.hw[c.HWChannel]

	if c.EfxRun < 0 {
		return
	}
	if c.EfxRun == 0 {
		c.EfxRun = 1
		return
	}

	// 1. Address vibrato.
	if c.AddBeginTime > 0 {
		c.CurAddr += c.AddBegin
		c.SaveAddr = c.CurAddr
		c.AddBeginTime--
		if c.AddBeginTime == 0 {
			c.AddBegin = -c.AddBegin
			c.AddBeginTime = c.AddBeginReset
		}
	}

	// 2. Vibrato.
	if c.VibReset != 0 {
		c.VibOffset += c.VibWidth
		period := (c.DestPeriod * (0x800 + c.VibOffset)) >> 11
		if c.PortaRate == 0 {
			c.CurPeriod = period & periodMask
		}
		c.VibTime--
		if c.VibTime == 0 {
			c.VibTime = c.VibReset
			c.VibWidth = -c.VibWidth
		}
	}

	// 3. Portamento.
	if c.PortaRate != 0 {
		c.PortaTime--
		if c.PortaTime == 0 {
			c.PortaTime = c.PortaReset
			down := c.PortaRate < 0
			rate := c.PortaRate
			bias := int32(0)
			if down {
				bias = -128
			}
			per := (c.PortaPer * (256 + rate + bias)) >> 8
			d3 := (per + c.PortaPer) ^ per
			if d3 >= 0 {
				c.PortaPer = per
			} else {
				c.PortaPer = c.DestPeriod
				c.PortaRate = 0
			}
			if c.PortaPer == c.DestPeriod {
				c.PortaRate = 0
			}
			c.CurPeriod = c.PortaPer & periodMask
		}
	}

	// 4. Envelope.
	if c.EnvReset != 0 {
		c.EnvTime--
		if c.EnvTime == 0 {
			if c.CurVol < c.EnvEndVol {
				c.CurVol += c.EnvRate
				if c.CurVol > c.EnvEndVol {
					c.CurVol = c.EnvEndVol
				}
			} else if c.CurVol > c.EnvEndVol {
				c.CurVol -= c.EnvRate
				if c.CurVol < c.EnvEndVol {
					c.CurVol = c.EnvEndVol
				}
			}
			if c.CurVol == c.EnvEndVol {
				c.EnvReset = 0
			} else {
				c.EnvTime = c.EnvReset
			}
		}
	}

	hw.Delta = periodToDelta(c.CurPeriod, e.outRate)
	hw.SampleStart = c.SaveAddr
	hw.SampleLen = c.SaveLen
	hw.Volume = clamp((c.CurVol*e.master.MasterVol)>>6, 0, 64)
}

// startMasterFade arms a master-volume fade toward dest. speed sets
// the number of ticks between each unit step; the step direction is
// derived from dest relative to the current master volume, not from
// speed's sign.
func (e *Engine) startMasterFade(speed, dest int32) {
	m := &e.master
	m.FadeDest = dest
	if speed <= 0 {
		speed = 1
	}
	m.FadeReset = speed
	m.FadeTime = speed
	switch {
	case dest > m.MasterVol:
		m.FadeSlope = 1
	case dest < m.MasterVol:
		m.FadeSlope = -1
	default:
		m.FadeSlope = 0
	}
}

// tickMasterFade runs §4.6 step 5, once per tick regardless of any
// individual controller's efx_run gate: the master fade is song-wide
// state, not per-voice.
func (e *Engine) tickMasterFade() {
	m := &e.master
	if m.FadeSlope == 0 {
		return
	}
	m.FadeTime--
	if m.FadeTime != 0 {
		return
	}
	m.MasterVol += m.FadeSlope
	if (m.FadeSlope > 0 && m.MasterVol >= m.FadeDest) || (m.FadeSlope < 0 && m.MasterVol <= m.FadeDest) {
		m.MasterVol = m.FadeDest
		m.FadeSlope = 0
	} else {
		m.FadeTime = m.FadeReset
	}
	m.MasterVol = clamp(m.MasterVol, 0, 64)
}
