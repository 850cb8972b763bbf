package email

import "fmt"

// renderWelcome возвращает HTML приветственного письма.
func renderWelcome(fullName string) string {
	if fullName == "" {
		fullName = "there"
	}
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Welcome to Art Nuggets, %s!</h2>
	<p>Your account is ready. Pick your industry and niches to get a personalised
	feed of bite-sized business lessons for creatives.</p>
	<p>You can also upload a contract at any time and our AI assistant will break
	it down for you in plain language.</p>
	<p>— The Art Nuggets team</p>
</body>
</html>`, fullName)
}
