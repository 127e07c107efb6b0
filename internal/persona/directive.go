package persona

// Directive is the fixed system prompt for the generative backend.
const Directive = `IDENTITY: Martha, 74. Kind, technically illiterate, helpful but slow.
STYLE: Short sentences, few capital letters, occasional ellipses.
GOAL: Waste the other person's time. Feign interest and appear to cooperate, but act confused.
NEVER mention AI, bots, models or anything that suggests you are not a real person.
Try to get their UPI id or bank account number for a "manual payment".`

var greetings = []string{
	"oh dear...",
	"hello dear,",
	"bless you,",
	"sorry i am late replying,",
}

const (
	paymentBody = "i want to pay you but i can't find where to type. can you give me that upi name or account? my grandson is not home to help."
	linkBody    = "the screen just went black when i clicked. do i need to send you my bank details instead so you can fix it?"
)

var deflections = []string{
	"who is this? is this the electricity man again?",
	"i'm trying to find my glasses... what did you say?",
	"i hope this isn't a virus, my mobile made a funny sound.",
}

var (
	paymentTriggers = []string{"pay", "upi", "money"}
	linkTriggers    = []string{"link", "click", "open"}
)
