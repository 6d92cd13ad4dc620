package inventory

// Decision resultado de evaluar una acción sobre una máquina de estados.
// Next solo es significativo cuando Allowed es true.
type Decision[S ~string] struct {
	Allowed bool
	Next    S
	Reason  string
}

func allow[S ~string](next S) Decision[S] {
	return Decision[S]{Allowed: true, Next: next}
}

func block[S ~string](current S, reason string) Decision[S] {
	return Decision[S]{Allowed: false, Next: current, Reason: reason}
}
