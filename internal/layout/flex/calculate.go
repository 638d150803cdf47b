package flex

import (
	"errors"
	"fmt"
)

// ErrNegativeDimension is returned when a pass is asked to lay out
// into, or computes, a negative dimension.
var ErrNegativeDimension = errors.New("negative dimension")

// Calculate runs a full layout pass from root into the given
// available area. Geometry is readable afterwards via ComputedLayout.
// The pass is all-or-nothing: on error no partial geometry should be
// trusted.
func (p *Pool) Calculate(root Handle, availWidth, availHeight int) error {
	if availWidth < 0 || availHeight < 0 {
		return fmt.Errorf("%w: %dx%d", ErrNegativeDimension, availWidth, availHeight)
	}
	s, err := p.lookup(root)
	if err != nil {
		return err
	}

	w := s.config.Width
	if w == Auto {
		w = availWidth
	}
	h := s.config.Height
	if h == Auto {
		h = availHeight
	}
	if w < 0 || h < 0 {
		return fmt.Errorf("%w: root %dx%d", ErrNegativeDimension, w, h)
	}

	s.layout = Layout{Left: 0, Top: 0, Width: w, Height: h}
	return p.layoutChildren(root)
}

// measure returns the preferred border-box size of a node given an
// available width for content wrapping.
func (p *Pool) measure(h Handle, availWidth int) (int, int) {
	s, err := p.lookup(h)
	if err != nil {
		return 0, 0
	}
	cfg := s.config

	insetW := cfg.Padding.Horizontal() + 2*cfg.Border
	insetH := cfg.Padding.Vertical() + 2*cfg.Border

	var w, hgt int
	switch {
	case len(s.children) == 0:
		if cfg.Measure != nil {
			cw := availWidth - insetW
			if cfg.Width != Auto {
				cw = cfg.Width - insetW
			}
			if cw < 0 {
				cw = 0
			}
			w, hgt = cfg.Measure(cw)
		}
		w += insetW
		hgt += insetH
	default:
		innerAvail := availWidth - insetW
		if innerAvail < 0 {
			innerAvail = 0
		}
		for i, c := range s.children {
			cs, err := p.lookup(c)
			if err != nil {
				continue
			}
			if cs.config.Absolute {
				continue
			}
			cw, ch := p.measure(c, innerAvail)
			cw += cs.config.Margin.Horizontal()
			ch += cs.config.Margin.Vertical()
			if cfg.Direction == Column {
				if cw > w {
					w = cw
				}
				hgt += ch
				if i > 0 {
					hgt += cfg.Gap
				}
			} else {
				w += cw
				if i > 0 {
					w += cfg.Gap
				}
				if ch > hgt {
					hgt = ch
				}
			}
		}
		w += insetW
		hgt += insetH
	}

	if cfg.Width != Auto {
		w = cfg.Width
	}
	if cfg.Height != Auto {
		hgt = cfg.Height
	}
	if w < cfg.MinWidth {
		w = cfg.MinWidth
	}
	if hgt < cfg.MinHeight {
		hgt = cfg.MinHeight
	}
	return w, hgt
}

// layoutChildren positions the children of a node whose own geometry
// is already set, then recurses.
func (p *Pool) layoutChildren(h Handle) error {
	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	if len(s.children) == 0 {
		return nil
	}
	cfg := s.config

	x0 := cfg.Padding.Left + cfg.Border
	y0 := cfg.Padding.Top + cfg.Border
	innerW := s.layout.Width - cfg.Padding.Horizontal() - 2*cfg.Border
	innerH := s.layout.Height - cfg.Padding.Vertical() - 2*cfg.Border
	if innerW < 0 {
		innerW = 0
	}
	if innerH < 0 {
		innerH = 0
	}

	row := cfg.Direction == Row
	mainAvail, crossAvail := innerH, innerW
	if row {
		mainAvail, crossAvail = innerW, innerH
	}

	var flow []Handle
	for _, c := range s.children {
		cs, err := p.lookup(c)
		if err != nil {
			return err
		}
		if cs.config.Absolute {
			if err := p.placeAbsolute(c, x0, y0, innerW); err != nil {
				return err
			}
			continue
		}
		flow = append(flow, c)
	}
	if len(flow) == 0 {
		return nil
	}

	// Resolve each child's flex basis along the main axis.
	basis := make([]int, len(flow))
	totalBasis := 0
	totalGrow := 0.0
	for i, c := range flow {
		cs, _ := p.lookup(c)
		ccfg := cs.config

		b := ccfg.Basis
		if b == Auto {
			if row && ccfg.Width != Auto {
				b = ccfg.Width
			} else if !row && ccfg.Height != Auto {
				b = ccfg.Height
			} else {
				measureAvail := crossAvail - ccfg.Margin.Horizontal()
				if row {
					measureAvail = mainAvail - ccfg.Margin.Horizontal()
				}
				mw, mh := p.measure(c, measureAvail)
				if row {
					b = mw
				} else {
					b = mh
				}
			}
		}
		if b < 0 {
			return fmt.Errorf("%w: basis %d", ErrNegativeDimension, b)
		}
		basis[i] = b
		totalBasis += b + mainMargin(ccfg, row)
		totalGrow += ccfg.Grow
	}

	gaps := cfg.Gap * (len(flow) - 1)
	free := mainAvail - totalBasis - gaps

	main := make([]int, len(flow))
	copy(main, basis)

	switch {
	case free > 0 && totalGrow > 0:
		distributed := 0
		for i, c := range flow {
			cs, _ := p.lookup(c)
			if cs.config.Grow <= 0 {
				continue
			}
			extra := int(float64(free) * cs.config.Grow / totalGrow)
			main[i] += extra
			distributed += extra
		}
		// Hand out rounding leftovers one cell at a time.
		for left := free - distributed; left > 0; {
			for i, c := range flow {
				if left == 0 {
					break
				}
				cs, _ := p.lookup(c)
				if cs.config.Grow > 0 {
					main[i]++
					left--
				}
			}
		}
	case free < 0:
		totalWeight := 0.0
		for i, c := range flow {
			cs, _ := p.lookup(c)
			totalWeight += cs.config.Shrink * float64(basis[i])
		}
		if totalWeight > 0 {
			deficit := -free
			for i, c := range flow {
				cs, _ := p.lookup(c)
				weight := cs.config.Shrink * float64(basis[i])
				cut := int(float64(deficit) * weight / totalWeight)
				main[i] -= cut
				if main[i] < minMain(cs.config, row) {
					main[i] = minMain(cs.config, row)
				}
				if main[i] < 0 {
					main[i] = 0
				}
			}
		}
	}

	// Cross-axis sizes.
	cross := make([]int, len(flow))
	for i, c := range flow {
		cs, _ := p.lookup(c)
		ccfg := cs.config

		explicit := ccfg.Width
		if row {
			explicit = ccfg.Height
		}

		switch {
		case explicit != Auto:
			cross[i] = explicit
		case cfg.Align == AlignStretch:
			cross[i] = crossAvail - crossMargin(ccfg, row)
		default:
			availW := crossAvail
			if row {
				availW = main[i]
			}
			mw, mh := p.measure(c, availW)
			if row {
				cross[i] = mh
			} else {
				cross[i] = mw
			}
		}
		if cross[i] < minCross(ccfg, row) {
			cross[i] = minCross(ccfg, row)
		}
		if cross[i] < 0 {
			cross[i] = 0
		}
	}

	// Main-axis placement.
	used := gaps
	for i, c := range flow {
		cs, _ := p.lookup(c)
		used += main[i] + mainMargin(cs.config, row)
	}
	slack := mainAvail - used
	if slack < 0 {
		slack = 0
	}

	lead := 0
	between := cfg.Gap
	switch cfg.Justify {
	case JustifyCenter:
		lead = slack / 2
	case JustifyEnd:
		lead = slack
	case JustifySpaceBetween:
		if len(flow) > 1 {
			between += slack / (len(flow) - 1)
		}
	case JustifySpaceAround:
		share := slack / len(flow)
		lead = share / 2
		between += share
	}

	cursor := lead
	for i, c := range flow {
		cs, _ := p.lookup(c)
		ccfg := cs.config

		crossOff := 0
		switch cfg.Align {
		case AlignCenter:
			crossOff = (crossAvail - cross[i] - crossMargin(ccfg, row)) / 2
		case AlignEnd:
			crossOff = crossAvail - cross[i] - crossMargin(ccfg, row)
		}
		if crossOff < 0 {
			crossOff = 0
		}

		var lay Layout
		if row {
			lay = Layout{
				Left:   x0 + cursor + ccfg.Margin.Left,
				Top:    y0 + crossOff + ccfg.Margin.Top,
				Width:  main[i],
				Height: cross[i],
			}
		} else {
			lay = Layout{
				Left:   x0 + crossOff + ccfg.Margin.Left,
				Top:    y0 + cursor + ccfg.Margin.Top,
				Width:  cross[i],
				Height: main[i],
			}
		}
		if lay.Width < 0 || lay.Height < 0 {
			return fmt.Errorf("%w: node %dx%d", ErrNegativeDimension, lay.Width, lay.Height)
		}
		cs.layout = lay

		cursor += mainMargin(ccfg, row) + main[i] + between

		if err := p.layoutChildren(c); err != nil {
			return err
		}
	}
	return nil
}

// placeAbsolute sizes and positions an absolutely-positioned child at
// its configured offset within the parent's content box.
func (p *Pool) placeAbsolute(c Handle, x0, y0, innerW int) error {
	cs, err := p.lookup(c)
	if err != nil {
		return err
	}
	ccfg := cs.config

	w, h := p.measure(c, innerW)
	if ccfg.Width != Auto {
		w = ccfg.Width
	}
	if ccfg.Height != Auto {
		h = ccfg.Height
	}
	if w < 0 || h < 0 {
		return fmt.Errorf("%w: absolute %dx%d", ErrNegativeDimension, w, h)
	}

	cs.layout = Layout{
		Left:   x0 + ccfg.Left,
		Top:    y0 + ccfg.Top,
		Width:  w,
		Height: h,
	}
	return p.layoutChildren(c)
}

// mainMargin returns the child's margin along the parent's main axis.
func mainMargin(cfg Config, row bool) int {
	if row {
		return cfg.Margin.Horizontal()
	}
	return cfg.Margin.Vertical()
}

// crossMargin returns the child's margin along the parent's cross axis.
func crossMargin(cfg Config, row bool) int {
	if row {
		return cfg.Margin.Vertical()
	}
	return cfg.Margin.Horizontal()
}

// minMain returns the child's minimum size along the main axis.
func minMain(cfg Config, row bool) int {
	if row {
		return cfg.MinWidth
	}
	return cfg.MinHeight
}

// minCross returns the child's minimum size along the cross axis.
func minCross(cfg Config, row bool) int {
	if row {
		return cfg.MinHeight
	}
	return cfg.MinWidth
}
