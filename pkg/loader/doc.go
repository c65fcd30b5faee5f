/*
Package loader reads decision models from YAML (or JSON) documents.

A document names one or more decisions. Each node entry is a decision when
it has "branches" (or "type: decision"), and a chance node otherwise:

	name: Screening programme
	willingness_to_pay: 30000
	decisions:
	  - name: Screen?
	    branches:
	      - name: No screening
	        next:
	          - name: Disease
	            probability: 0.1
	            cost: 5000
	            utility: 10
	          - name: Healthy
	            probability: 0.9
	            utility: 20

Loading is read-only: nothing in canopy writes a model back out.
*/
package loader
