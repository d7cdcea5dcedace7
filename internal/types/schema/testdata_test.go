package schema

func datasetSpec() EntitySpec {
	return EntitySpec{
		Name: "dataset",
		Fields: []FieldSpec{
			{FieldName: "name", QueryByDefault: true, Boost: 10},
			{FieldName: "description", QueryByDefault: true},
			{FieldName: "platform", AddToFilters: true, FilterName: "Platform"},
			{FieldName: "origin", AddToFilters: true, FilterName: "Environment"},
			{FieldName: "removed"},
		},
	}
}

func chartSpec() EntitySpec {
	return EntitySpec{
		Name: "chart",
		Fields: []FieldSpec{
			{FieldName: "title", QueryByDefault: true, Boost: 8},
			{FieldName: "platform", AddToFilters: true, FilterName: "Platform"},
			{FieldName: "tool", AddToFilters: true, FilterName: "Tool"},
		},
	}
}
