package patterns

import (
	"regexp"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// securityRules is the static security pattern table. These always run,
// supplementing whatever the external security scanner reports.
var securityRules = []Rule{
	// SQL injection
	{Pattern: regexp.MustCompile(`(?im)execute\s*\(\s*["'].*%s.*["']`), Message: "Potential SQL injection - use parameterized queries", Severity: models.SeverityHigh, Kind: "sql_injection"},
	{Pattern: regexp.MustCompile(`(?im)execute\s*\(\s*f["']`), Message: "Potential SQL injection with f-string", Severity: models.SeverityHigh, Kind: "sql_injection"},
	{Pattern: regexp.MustCompile(`(?im)execute\s*\(\s*["'].*\+`), Message: "Potential SQL injection with string concatenation", Severity: models.SeverityHigh, Kind: "sql_injection"},
	{Pattern: regexp.MustCompile(`(?im)cursor\.execute\s*\(\s*[^,]+\s*%\s*`), Message: "Potential SQL injection with % formatting", Severity: models.SeverityHigh, Kind: "sql_injection"},

	// Command injection
	{Pattern: regexp.MustCompile(`(?im)os\.system\s*\(`), Message: "os.system() is vulnerable to command injection - use subprocess", Severity: models.SeverityHigh, Kind: "command_injection"},
	{Pattern: regexp.MustCompile(`(?im)os\.popen\s*\(`), Message: "os.popen() is vulnerable to command injection", Severity: models.SeverityHigh, Kind: "command_injection"},
	{Pattern: regexp.MustCompile(`(?im)subprocess\.(call|run|Popen)\s*\([^)]*shell\s*=\s*True`), Message: "shell=True enables command injection", Severity: models.SeverityHigh, Kind: "command_injection"},
	{Pattern: regexp.MustCompile(`(?im)eval\s*\(`), Message: "eval() can execute arbitrary code", Severity: models.SeverityHigh, Kind: "code_execution"},
	{Pattern: regexp.MustCompile(`(?im)exec\s*\(`), Message: "exec() can execute arbitrary code", Severity: models.SeverityHigh, Kind: "code_execution"},

	// Hardcoded credentials
	{Pattern: regexp.MustCompile(`(?im)password\s*=\s*["'][^"']+["']`), Message: "Hardcoded password detected", Severity: models.SeverityHigh, Kind: "hardcoded_credential"},
	{Pattern: regexp.MustCompile(`(?im)api_key\s*=\s*["'][^"']+["']`), Message: "Hardcoded API key detected", Severity: models.SeverityHigh, Kind: "hardcoded_credential"},
	{Pattern: regexp.MustCompile(`(?im)secret\s*=\s*["'][^"']+["']`), Message: "Hardcoded secret detected", Severity: models.SeverityHigh, Kind: "hardcoded_credential"},
	{Pattern: regexp.MustCompile(`(?im)token\s*=\s*["'][A-Za-z0-9_\-]{20,}["']`), Message: "Potential hardcoded token", Severity: models.SeverityMedium, Kind: "hardcoded_credential"},
	{Pattern: regexp.MustCompile(`(?im)AWS_SECRET_ACCESS_KEY\s*=\s*["']`), Message: "Hardcoded AWS credentials", Severity: models.SeverityHigh, Kind: "hardcoded_credential"},

	// Unsafe deserialization
	{Pattern: regexp.MustCompile(`(?im)pickle\.loads?\s*\(`), Message: "Unsafe pickle deserialization - can execute arbitrary code", Severity: models.SeverityHigh, Kind: "deserialization"},
	{Pattern: regexp.MustCompile(`(?im)yaml\.load\s*\(`), Exclude: regexp.MustCompile(`Loader`), Message: "Unsafe YAML load - use yaml.safe_load()", Severity: models.SeverityHigh, Kind: "deserialization"},
	{Pattern: regexp.MustCompile(`(?im)marshal\.loads?\s*\(`), Message: "Unsafe marshal deserialization", Severity: models.SeverityMedium, Kind: "deserialization"},

	// Path traversal
	{Pattern: regexp.MustCompile(`(?im)open\s*\([^)]*\+[^)]*\)`), Message: "Potential path traversal - validate file paths", Severity: models.SeverityMedium, Kind: "path_traversal"},
	{Pattern: regexp.MustCompile(`(?im)os\.path\.join\s*\([^)]*request`), Message: "Potential path traversal with user input", Severity: models.SeverityMedium, Kind: "path_traversal"},

	// Insecure random
	{Pattern: regexp.MustCompile(`(?im)random\.(random|randint|choice|randrange)\s*\(`), Message: "Insecure random for security use - use secrets module", Severity: models.SeverityLow, Kind: "insecure_random"},

	// Debug / assert in production
	{Pattern: regexp.MustCompile(`(?m)^assert\s+`), Message: "Assert can be disabled with -O flag", Severity: models.SeverityLow, Kind: "debug"},
	{Pattern: regexp.MustCompile(`(?im)app\.run\s*\([^)]*debug\s*=\s*True`), Message: "Debug mode enabled - disable in production", Severity: models.SeverityMedium, Kind: "debug"},

	// Weak cryptography
	{Pattern: regexp.MustCompile(`(?im)hashlib\.(md5|sha1)\s*\(`), Message: "Weak hash algorithm - use SHA-256 or better", Severity: models.SeverityMedium, Kind: "weak_crypto"},
	{Pattern: regexp.MustCompile(`(?im)from\s+Crypto\.Cipher\s+import\s+DES`), Message: "DES is weak - use AES", Severity: models.SeverityHigh, Kind: "weak_crypto"},

	// SSRF
	{Pattern: regexp.MustCompile(`(?im)requests\.(get|post)\s*\([^)]*\+`), Message: "Potential SSRF with dynamic URL", Severity: models.SeverityMedium, Kind: "ssrf"},
	{Pattern: regexp.MustCompile(`(?im)urllib\.request\.urlopen\s*\([^)]*\+`), Message: "Potential SSRF with dynamic URL", Severity: models.SeverityMedium, Kind: "ssrf"},

	// Temporary files
	{Pattern: regexp.MustCompile(`(?im)tempfile\.mktemp\s*\(`), Message: "mktemp is insecure - use mkstemp()", Severity: models.SeverityMedium, Kind: "tempfile"},

	// XML
	{Pattern: regexp.MustCompile(`(?im)xml\.etree\.ElementTree\.parse\s*\(`), Message: "XML parsing may be vulnerable to XXE", Severity: models.SeverityLow, Kind: "xxe"},
	{Pattern: regexp.MustCompile(`(?im)lxml\.etree\.parse\s*\(`), Message: "XML parsing may be vulnerable to XXE", Severity: models.SeverityLow, Kind: "xxe"},
}

// FindSecurityPatterns runs the static security rule table over one file.
func FindSecurityPatterns(f *sourcemodel.File) []models.Issue {
	return matchRules(f, securityRules, models.DimSecurity)
}
