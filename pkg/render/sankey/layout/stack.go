package layout

// stack positions the aggregated nodes of every stage.
func stack(stages []stageNodes, cfg Config) Layout {
	n := len(stages)
	l := Layout{
		Stages:       n,
		Nodes:        make([][]Node, n),
		StageTotals:  make([]float64, n),
		StageHeights: make([]float64, n),
		StageOffsets: make([]float64, n),
		VAlign:       cfg.VAlign,
	}

	var maxTotal float64
	for s, st := range stages {
		l.StageTotals[s] = st.total
		maxTotal = max(maxTotal, st.total)
	}
	l.Gap = cfg.NodeGap * maxTotal

	for s, st := range stages {
		l.StageHeights[s] = st.total + float64(len(st.order)-1)*l.Gap
		l.PlotHeight = max(l.PlotHeight, l.StageHeights[s])
	}

	vscale := cfg.VAlign.Scale()
	for s := range stages {
		l.StageOffsets[s] = vscale * (l.PlotHeight - l.StageHeights[s])
	}

	l.SubWidth = l.PlotHeight / cfg.Aspect
	l.NodeWidth = cfg.NodeWidth * l.SubWidth
	l.LabelGap = cfg.LabelGap * l.SubWidth
	l.LabelWidth = cfg.LabelWidth * l.SubWidth
	l.PlotWidth = float64(n-1)*l.SubWidth +
		2*l.SubWidth*(cfg.LabelGap+cfg.LabelWidth) +
		float64(n)*l.NodeWidth

	for s, st := range stages {
		left := l.StageLeft(s)
		bottom := l.StageOffsets[s]
		nodes := make([]Node, len(st.order))
		for i, label := range st.order {
			w := st.weights[label]
			nodes[i] = Node{
				Stage:  s,
				Label:  label,
				Weight: w,
				Left:   left,
				Right:  left + l.NodeWidth,
				Bottom: bottom,
				Top:    bottom + w,
			}
			bottom += w + l.Gap
		}
		l.Nodes[s] = nodes
	}
	return l
}
