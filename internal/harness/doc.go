// Package harness provides conformance testing for data tables.
//
// A scenario is a YAML file that describes a dataset, the table
// configuration, and a sequence of steps. Each step is applied to a real
// table and the resulting view is recorded as a trace event; optional
// expect blocks are checked against the event.
//
// # Scenario Format
//
//	name: paging_with_sort
//	description: "Sorting by age keeps ties in dataset order"
//	rows:
//	  - { id: 1, name: Bob, age: 30 }
//	  - { id: 2, name: Ann, age: 25 }
//	columns:
//	  - { key: name, sortable: true }
//	  - { key: age, sortable: true, align: right }
//	options:
//	  page_size: 2
//	  selectable: true
//	actions: [Archive]
//	steps:
//	  - do: sort
//	    value: age
//	    expect:
//	      visible: ["2", "1"]
//	      sort_dir: asc
//
// Rows may come from rows_file (.json, .yaml or .csv) and columns from a
// CUE layout file instead; both paths are relative to the scenario file.
// Without columns, they are inferred from the first row.
//
// # Deterministic Testing
//
// Every scenario runs with a fixed table id (table_id, or
// "test-table-default") and a recorder that numbers callbacks from 1, so
// traces are identical across runs. Trace text is compared against golden
// files in testdata/golden; regenerate them with:
//
//	go test ./internal/harness -update
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/paging.yaml")
//	if err != nil {
//	    return err
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    return err
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        fmt.Println(e)
//	    }
//	}
package harness
