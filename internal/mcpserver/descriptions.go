package mcpserver

// Tool descriptions with interpretation guidance for LLMs.
// Each description explains what the tool does, when to use it,
// and how to read the results.

func describeMetrics() string {
	return `Computes object-oriented design metrics (DIT, CBO, LCOM, method count) per class.

USE WHEN:
- Assessing class design quality before a refactor
- Finding god classes and tangled dependencies
- Reviewing inheritance depth across a codebase

INTERPRETING RESULTS:
- DIT (Depth of Inheritance Tree): parent links between the class and its hierarchy root
- CBO (Coupling Between Objects): distinct other classes referenced from method bodies
- CBO > 3 raises the HighCoupling flag
- LCOM (Lack of Cohesion of Methods): method pairs sharing no attribute minus pairs sharing one, floored at zero
- LCOM > 5 raises the LowCohesion flag
- More than 7 methods raises the TooManyMethods flag
- Classes within every limit report OK

METRICS RETURNED:
- Per-class: file, line, DIT, CBO, LCOM, method count, flags
- Summary: unit, class, and method counts plus the complexity distribution`
}

func describeComplexity() string {
	return `Measures cyclomatic complexity of every method across a codebase.

USE WHEN:
- Identifying methods that are hard to test or maintain
- Finding refactoring candidates before code reviews
- Prioritizing technical debt remediation

INTERPRETING RESULTS:
- Complexity starts at 1 and grows with each branch, loop, handler, and boolean operator
- Complexity <= 5 grades A (simple), <= 10 grades B, <= 20 grades C, worse bands run D through F
- Methods above the ceiling (default 10) are marked as exceeding and deserve a split
- P90 shows the 90th percentile across all methods (codebase trend)

METRICS RETURNED:
- Per-method: file, qualified name, line, complexity, grade, ceiling breach
- Summary: mean, standard deviation, P90, and maximum complexity`
}

func describeReport() string {
	return `Renders the full plain-text metrics report for a codebase.

USE WHEN:
- Producing a shareable design-health snapshot
- Comparing runs over time (output is deterministic for identical input)
- Reviewing all classes and methods in one pass

INTERPRETING RESULTS:
- Section 1 lists per-method cyclomatic complexity with grades
- Section 2 counts total, logical, source, and comment lines
- Section 3 lists every class with its DIT, CBO, LCOM, method and attribute counts
- Section 4 collects problem areas: ceiling breaches, threshold flags, cycles, warnings

The report is the same text the augur CLI prints and saves.`
}
