package classifier

import "regexp"

// previousInsurerPatterns match "previous carrier" disclosure spans. Policies
// ported from another company name that company in a disclosure line; left in
// place it wins carrier detection over the actual issuer. Patterns run against
// Turkish-uppercased text and consume the label plus the words that follow.
var previousInsurerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`ESKİ\s+SİGORTA\s+ŞİRKET[İI][:\s]+[A-ZÇĞİÖŞÜ\s]+`),
	regexp.MustCompile(`ESKİ\s+ŞİRKET[:\s]+[A-ZÇĞİÖŞÜ\s]+`),
	regexp.MustCompile(`ÖNCEKİ\s+SİGORTA[:\s]+[A-ZÇĞİÖŞÜ\s]+`),
	regexp.MustCompile(`ÖNCEKİ\s+POLİÇE\s+ŞİRKET[İI][:\s]+[A-ZÇĞİÖŞÜ\s]+`),
	regexp.MustCompile(`ÖNCEKİ\s+SİGORTACI[:\s]+[A-ZÇĞİÖŞÜ\s]+`),
}

// Scrub removes previous-insurer disclosure spans from uppercased document
// text. It is a named pipeline stage so its effect on classification stays
// independently testable.
func Scrub(upper string) string {
	for _, re := range previousInsurerPatterns {
		upper = re.ReplaceAllString(upper, "")
	}
	return upper
}
