package upstream

// Sample payloads served when stubs are enabled. Built per call so callers may mutate them.

func loginStub() any {
	return map[string]any{
		"rut": "11188222333",
		"carreras": []any{
			map[string]any{"codigo": "8606", "nombre": "ICCI", "catalogo": "201610"},
		},
	}
}

func curriculumStub() any {
	return []any{
		map[string]any{"codigo": "DCCB-00107", "asignatura": "Algebra I", "creditos": float64(6), "nivel": float64(1), "prereq": ""},
		map[string]any{"codigo": "DCCB-00106", "asignatura": "Calculo I", "creditos": float64(6), "nivel": float64(1), "prereq": ""},
	}
}

func historyStub() any {
	return []any{
		map[string]any{
			"nrc":             "21943",
			"period":          "201610",
			"student":         "11188222333",
			"course":          "ECIN-00704",
			"excluded":        false,
			"inscriptionType": "REGULAR",
			"status":          "APROBADO",
		},
	}
}
