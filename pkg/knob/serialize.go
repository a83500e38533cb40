package knob

// Serialization payload helpers shared by the knob variants. Each
// variant encodes its state as a JSON document so project files stay
// stable per type name across application versions. Curves only exist
// on animatable (numeric) knobs, so keyframe values travel as floats
// and are rebuilt with the knob's value kind on restore.

type keyPayload struct {
	Time       float64 `json:"t"`
	Value      float64 `json:"v"`
	LeftTime   float64 `json:"lt,omitempty"`
	LeftValue  float64 `json:"lv,omitempty"`
	LeftSet    bool    `json:"ls,omitempty"`
	RightTime  float64 `json:"rt,omitempty"`
	RightValue float64 `json:"rv,omitempty"`
	RightSet   bool    `json:"rs,omitempty"`
}

type curvePayload struct {
	Interpolation int          `json:"interp"`
	Keys          []keyPayload `json:"keys"`
}

// encodeCurves flattens a knob's curves for serialization.
func encodeCurves(curves map[int]*AnimationCurve) map[int]curvePayload {
	if len(curves) == 0 {
		return nil
	}
	out := make(map[int]curvePayload, len(curves))
	for d, c := range curves {
		cp := curvePayload{Interpolation: int(c.Interpolation())}
		for _, k := range c.Keys() {
			kp := keyPayload{Time: k.Time(), Value: k.Value().Float()}
			if lt := k.LeftTangent(); !lt.Value.IsNil() {
				kp.LeftSet = true
				kp.LeftTime = lt.Time
				kp.LeftValue = lt.Value.Float()
			}
			if rt := k.RightTangent(); !rt.Value.IsNil() {
				kp.RightSet = true
				kp.RightTime = rt.Time
				kp.RightValue = rt.Value.Float()
			}
			cp.Keys = append(cp.Keys, kp)
		}
		out[d] = cp
	}
	return out
}

// decodeCurves rebuilds curves from a payload, attaching them to the
// owning base with the given value kind. The restore path installs the
// change hooks but must not fire them, so keys are written directly.
func decodeCurves(b *Base, payload map[int]curvePayload, kind ValueKind) {
	b.curves = make(map[int]*AnimationCurve, len(payload))
	for d, cp := range payload {
		c := NewAnimationCurve(Interpolation(cp.Interpolation))
		for _, kp := range cp.Keys {
			k := &KeyFrame{time: kp.Time, value: numberOfKind(kind, kp.Value), curve: c}
			if kp.LeftSet {
				k.left = Tangent{Time: kp.LeftTime, Value: numberOfKind(kind, kp.LeftValue)}
			}
			if kp.RightSet {
				k.right = Tangent{Time: kp.RightTime, Value: numberOfKind(kind, kp.RightValue)}
			}
			c.keys = append(c.keys, k)
		}
		dim := d
		c.setOnChange(func() { b.curveChanged(dim) })
		b.curves[d] = c
	}
}
