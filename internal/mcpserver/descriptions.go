package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeHealth() string {
	return `Runs a multi-dimensional health analysis over a project and returns
per-dimension scores, findings, and prioritized remediation actions.

USE WHEN:
- Assessing overall code quality before a refactoring effort
- Producing a prioritized remediation plan for a codebase
- Comparing health across projects or over time
- Deciding which quality dimension to invest in next

INTERPRETING RESULTS:
- Scores are 0-100 per dimension; overall_health is the weighted sum
  (maintainability 35%, security 25%, performance 20%, scalability 10%,
  reusability 10%)
- Score < 60: critical, generates a high priority action
- Score < 75: needs attention, generates a medium priority action
- meta.confidence below 1.0 means some external tools (radon, bandit,
  pylint) were unavailable and built-in detectors supplied the data
- Issue severity: high findings dominate the score penalties

METRICS RETURNED:
- dimensions: score, issues, and metrics per analyzed dimension
- priority_actions: worst-scoring dimensions first, capped at 5
- meta: analyzer version, tools used/failed, coverage, confidence`
}

func describeDimension() string {
	return `Analyzes a single quality dimension of a project: maintainability,
performance, security, scalability, or reusability.

USE WHEN:
- Drilling into one dimension flagged by analyze_health
- Running a focused security or performance review
- Iterating on remediation for a single concern

INTERPRETING RESULTS:
- maintainability: average cyclomatic complexity banded to 100/80/60/40
- performance: nested loops, blocking calls, and memory risks deduct
  8/3/1 points by severity
- security: bandit findings plus static patterns deduct 15/5/1 points
- scalability: circular imports (10 points each) plus SOLID violations
- reusability: duplicate blocks and dead code, minus a small bonus for
  identified extractable patterns

METRICS RETURNED:
- dimension: score, issue list with file/line/severity, detector metrics
- meta: tools used/failed, coverage, confidence for this run`
}
