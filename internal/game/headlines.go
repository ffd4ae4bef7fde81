package game

// Ticker filler shown under every snapshot. Purely cosmetic; none of it
// feeds back into prices or events.
var headlines = []string{
	"Man sues himself and wins; doesn't know whether to pay or collect",
	"Scientists confirm talking to plants helps; plants still not responding",
	"Local baker creates bread that doesn't go stale; scientists baffled",
	"Study: Money can't buy happiness, but it can rent it indefinitely",
	"Man breaks record for most records broken; record keepers confused",
	"Area dog learns to use toilet; cat plotting revenge",
	"New diet: Eat whatever you want, but only while standing on one leg",
	"Psychic wins lottery; claims 'total surprise'",
	"Man finds 20-year-old wallet; money inside now worthless",
	"Scientists name new element 'Surprisium'; no one saw it coming",
	"Study: People who say 'literally' don't know what it means",
	"Man with 'YOLO' tattoo lives very cautious life",
	"Meteorologists achieve 100% accuracy by saying 'it might rain'",
	"Study: Procrastination beneficial; details coming next year",
	"Cat elected mayor; promises more naps for all",
	"Coffee drinkers live longer, sleep less, and twitch more",
	"Restaurant's 'pay what you weigh' promotion loses money instantly",
	"Man builds time machine; warns past self it won't work",
	"Research: Chocolate officially a vegetable; nation rejoices",
	"Average person spends 4 years looking for lost items",
	"Man claims crypto expertise; can't explain it to anyone",
	"Woman sets record: 3 hours without checking phone",
	"Study: People who say 'trust me' least trustworthy",
	"Stock market plunges; investors wish they'd bought lottery tickets",
	"Nation's economy grows 0.1%; government declares 'economic miracle'",
	"Bitcoin hits new high; owner forgets password",
	"Bank introduces 'honesty fee'; no one knows what it's for",
	"Wall Street trader retires at 30; parents still ask when getting real job",
	"Central bank prints money; accidentally uses washable ink",
	"Billionaire buys island; forgets where he put it",
	"Currency collapses; citizens using Monopoly money instead",
	"Stock trader makes millions by accidentally hitting wrong button",
	"Economists predict recession; also predict it might not happen",
	"Bank ATM gives double cash; line now visible from space",
	"Investor buys company without knowing what it does; profits soar",
	"Stock market explained with emojis; finally makes sense",
	"Nation makes all citizens millionaires; bread now costs billions",
	"Economists shocked when prediction actually comes true",
	"Bank accidentally transfers trillions; asks nicely for it back",
	"Billionaire can't find cash for parking meter; buys parking lot",
	"Nation's debt clock breaks; technicians can't afford to fix it",
	"Stock exchange closes early; traders discover outside world exists",
	"Bank's 'no fee' account has record number of fees",
	"Nation celebrates budget surplus; accountant admits math error",
	"Economists debate theory; real world continues to ignore them",
	"Investor diversifies portfolio with Pokémon cards; outperforms market",
	"Stock market reaches record high; nobody knows why",
	"Central bank loses decimal point; economy unexpectedly booms",
	"Stock market crashes; investors wish they'd bought beanie babies",
	"Investor becomes billionaire; still uses coupons",
}

var newsAgencies = []string{
	"CNN", "BBC", "AP", "RT", "NYT", "WSJ", "FOX", "NPR", "ABC", "CBS",
}

var darkwebTips = []string{
	"Trading stocks is a great way to make money, but watch out for SEC investigations.",
	"If your health drops below 85, you might be hospitalized, which costs money and time.",
	"Student loan debt increases over time due to interest, pay it off quickly.",
	"Bank savings generate interest, but loan interest rates are higher.",
	"Some market events can dramatically affect stock prices, stay informed.",
	"You can upgrade your trade book size through Robinwood, but it's expensive.",
	"Hospital visits can restore health, but insurance premiums and copays add up.",
	"Your final score is cash + bank savings - debt.",
	"Some stocks are more profitable than others, figure out which ones.",
	"If your health drops to 0, the game ends.",
	"If your debt is too high, you might face financial penalties.",
	"Enabling hacker actions can affect your bank savings, but it's risky.",
	"The market is volatile - prices change daily.",
	"Buy low, sell high is the key to success.",
	"Diversify your portfolio to minimize risk.",
}

var darkwebNews = []string{
	"SEC announces investigation into market manipulation of certain tech stocks.",
	"Cryptocurrency regulations tightening, prices expected to fluctuate.",
	"Major security breach at Super Nicron, stock prices likely to be affected.",
	"nWidia facing class action lawsuit over chip defects.",
	"SBY500 index fund expected to announce record dividends.",
	"Tezla recalls electric vehicles due to battery issues.",
	"PinTuoTuo smartphones gaining market share in college demographic.",
	"Plantir data analytics software found to have security vulnerabilities.",
	"Government crackdown on darkweb activities intensifying.",
	"Healthcare costs rising, insurance premiums expected to increase.",
	"Trading app fees increasing across the industry.",
	"Bank interest rates adjusting due to federal policy changes.",
	"Student loan interest rates expected to rise.",
	"SEC increasing penalties for insider trading.",
	"New trading regulations coming into effect next quarter.",
}

// pickDistinct draws n entries from pool without repeats. Draw order
// follows the pool's randomness, not the pool order.
func pickDistinct(rng dice, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	seen := make(map[int]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		i := rng.Intn(len(pool))
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, pool[i])
	}
	return out
}
