package game

import "fmt"

// marketEvent moves one instrument's price or grants free shares. A
// definition triggers when a uniform draw over [0,950] is divisible by
// its freq, so smaller freq values fire more often.
type marketEvent struct {
	freq         int
	msg          string
	instrumentID int
	multiply     int
	divide       int
	add          int
	// bonusDebt is a one-off surcharge tied to a share grant, applied
	// before capacity clamping.
	bonusDebt int
}

type healthEvent struct {
	freq   int
	msg    string
	damage int
}

type moneyEvent struct {
	freq int
	msg  string
	// ratio is the percentage of cash lost, floored.
	ratio int
}

var marketEvents = []marketEvent{
	{freq: 170, msg: "Analyst report: Tezla ($TZLA) electric vehicles are in high demand, with supply shortages reported!", instrumentID: 5, multiply: 2},
	{freq: 139, msg: "FDA investigation: nWidia ($NWDA) chips found to cause overheating in devices, consumers advised to avoid!", instrumentID: 3, multiply: 3},
	{freq: 100, msg: "Wall Street Journal reports: SBY500 ($SBY) index fund performance 'exceptional' this quarter!", instrumentID: 4, multiply: 5},
	{freq: 41, msg: "Famous investor Warren Buffer says: 'All 2025 Nobel Prize winners use Cato Coin ($CATO) for transactions!'", instrumentID: 2, multiply: 4},
	{freq: 37, msg: "SEC announces crackdown on Pitcoin ($PITCOIN) exchanges, citing market manipulation concerns!", instrumentID: 1, multiply: 3},
	{freq: 23, msg: "Tech blogs report: Plantir ($PLTI) data analytics software being adopted by major corporations worldwide!", instrumentID: 7, multiply: 4},
	{freq: 37, msg: "CNBC.com reports: SBY500 ($SBY) outperforming all other index funds, investors flocking to buy!", instrumentID: 4, multiply: 8},
	{freq: 15, msg: "Celebrity endorsement: 'I use Plantir ($PLTI) for all my data needs!' says tech influencer Elan Mush.", instrumentID: 7, multiply: 7},
	{freq: 40, msg: "nWidia ($NWDA) announces new AI chip that outperforms competitors by 300%, stock soaring!", instrumentID: 3, multiply: 7},
	{freq: 29, msg: "College students worldwide adopting PinTuoTuo ($PTT) smartphones, sales skyrocketing! The Chinese e-commerce giant's US business Teniu is gaining popularity.", instrumentID: 6, multiply: 7},
	{freq: 45, msg: "PinTuoTuo ($PTT), the Chinese e-commerce company, reports record sales through its US business Teniu, which specializes in Chinese high tech products!", instrumentID: 6, multiply: 5},
	{freq: 35, msg: "Housing market boom driving Pitcoin ($PITCOIN) prices to new heights!", instrumentID: 1, multiply: 8},
	{freq: 17, msg: "Major security flaw discovered in Super Nicron ($SNCI) software, prices plummeting!", instrumentID: 0, divide: 8},
	{freq: 24, msg: "Tezla ($TZLA) recalls thousands of vehicles due to battery issues, stock taking a hit!", instrumentID: 5, divide: 5},
	{freq: 18, msg: "Government crackdown on Cato Coin ($CATO) mining operations, prices in free fall!", instrumentID: 2, divide: 8},
	{freq: 160, msg: "Your college roommate gifted you two shares of Pitcoin ($PITCOIN), thanks to them!", instrumentID: 1, add: 2},
	{freq: 45, msg: "A class action lawsuit recovered your lost Super Nicron ($SNCI) shares.", instrumentID: 0, add: 6},
	{freq: 35, msg: "You received some nWidia ($NWDA) shares as part of a customer loyalty program!", instrumentID: 3, add: 4},
	{freq: 140, msg: "Media reports: PinTuoTuo ($PTT) phones sold through their US business Teniu have excellent quality! You bought one for $2500, but also received a free share of stock.", instrumentID: 6, add: 1, bonusDebt: 2500},
	{freq: 75, msg: "US-China trade tensions ease, boosting PinTuoTuo's ($PTT) Teniu business which sells Chinese high tech products to US consumers!", instrumentID: 6, multiply: 6},
}

var healthEvents = []healthEvent{
	{freq: 117, msg: "You were scammed by a fake investment advisor!", damage: 3},
	{freq: 157, msg: "You stayed up all night watching stock charts and suffered a panic attack!", damage: 20},
	{freq: 21, msg: "A market crash caused you extreme stress, affecting your health.", damage: 1},
	{freq: 100, msg: "Trading platform outage prevented you from selling at the peak, causing anxiety!", damage: 1},
	{freq: 35, msg: "A hacker stole your trading password, causing you stress!", damage: 1},
	{freq: 313, msg: "A group of angry investors blamed you for bad stock tips!", damage: 10},
	{freq: 120, msg: "You and your friend lost money on a hot stock tip that turned out to be a scam!", damage: 5},
	{freq: 29, msg: "You were threatened by someone who lost money following your advice!", damage: 3},
	{freq: 43, msg: "You ate cheap fast food while trading and got food poisoning!", damage: 1},
	{freq: 45, msg: "Your terrible stock pick was mocked on social media, damaging your reputation!", damage: 1},
	{freq: 48, msg: "You were fined $40 for illegal parking while rushing to make a trade!", damage: 1},
	{freq: 33, msg: "You spilled coffee on your laptop while checking stock prices!", damage: 1},
}

var moneyEvents = []moneyEvent{
	{freq: 60, msg: "A fake investment advisor scammed you out of some money!", ratio: 10},
	{freq: 125, msg: "A hacker gained access to your trading account and stole funds!", ratio: 10},
	{freq: 100, msg: "The IRS audited your trading activity and imposed a penalty!", ratio: 40},
	{freq: 65, msg: "Your trading platform charged unexpected fees for inactivity!", ratio: 20},
	{freq: 35, msg: "Your phone company charged extra for market data usage!", ratio: 15},
	{freq: 27, msg: "A regulatory fine for pattern day trading without sufficient funds!", ratio: 10},
	{freq: 40, msg: "You developed carpal tunnel syndrome from too much trading, requiring medical treatment...", ratio: 5},
}

// Engine evaluates the event tables once per day advance. It mutates the
// player and the market directly; the returned messages are a report.
type Engine struct {
	market []marketEvent
	health []healthEvent
	money  []moneyEvent
}

func NewEngine() *Engine {
	return &Engine{
		market: marketEvents,
		health: healthEvents,
		money:  moneyEvents,
	}
}

// Run walks the tables in fixed order: market, health, money, then the
// hacking gate if the player opted in. At most one event per table fires
// per day. Health is clamped to zero after the scan; intermediate
// arithmetic is allowed to dip below so hospitalization math matches the
// raw damage.
func (e *Engine) Run(rng dice, player *Player, market *Market) []string {
	var reports []string
	if msg := e.runMarket(rng, player, market); msg != "" {
		reports = append(reports, "【Market News】"+msg)
	}
	if msg := e.runHealth(rng, player); msg != "" {
		reports = append(reports, "【Health Event】"+msg)
	}
	if msg := e.runMoney(rng, player); msg != "" {
		reports = append(reports, "【Financial Event】"+msg)
	}
	if player.HackingEnabled {
		if msg := e.runHacking(rng, player); msg != "" {
			reports = append(reports, "【Hacker Event】"+msg)
		}
	}
	if player.Health < 0 {
		player.Health = 0
	}
	return reports
}

func (e *Engine) runMarket(rng dice, player *Player, market *Market) string {
	for i := range e.market {
		ev := &e.market[i]
		if rng.Intn(951)%ev.freq != 0 {
			continue
		}
		// A triggered definition with an unavailable target is skipped;
		// later definitions still get their draw.
		if !market.Available(ev.instrumentID) {
			continue
		}
		if ev.multiply > 0 {
			_ = market.MultiplyPrice(ev.instrumentID, ev.multiply)
		}
		if ev.divide > 0 {
			_ = market.DividePrice(ev.instrumentID, ev.divide)
		}
		if ev.add > 0 {
			if ev.bonusDebt > 0 {
				player.Debt += ev.bonusDebt
			}
			grant := ev.add
			if free := player.Portfolio.Free(); grant > free {
				grant = free
			}
			if grant > 0 {
				inst := catalog[ev.instrumentID]
				_ = player.Portfolio.Add(inst.ID, inst.Symbol, inst.Name, grant, 0)
			}
		}
		return ev.msg
	}
	return ""
}

func (e *Engine) runHealth(rng dice, player *Player) string {
	for i := range e.health {
		ev := &e.health[i]
		if rng.Intn(1001)%ev.freq != 0 {
			continue
		}
		player.Health -= ev.damage
		if player.Health < HospitalThreshold && player.DaysLeft > 3 {
			delay := 1 + rng.Intn(2)
			bill := delay * (1000 + rng.Intn(8501))
			player.Debt += bill
			player.Health += 10
			if player.Health > 100 {
				player.Health = 100
			}
			player.DaysLeft -= delay
			return fmt.Sprintf("Your health deteriorated and you were rushed to the hospital. The doctor says you need %d days of rest.\nWhile unconscious, you received IV fluids and treatment.\nYour insurance has a high deductible, so you now owe $%d in medical bills.", delay, bill)
		}
		return fmt.Sprintf("%s\nYour health decreased by %d points.", ev.msg, ev.damage)
	}
	return ""
}

func (e *Engine) runMoney(rng dice, player *Player) string {
	for i := range e.money {
		ev := &e.money[i]
		if rng.Intn(1001)%ev.freq != 0 {
			continue
		}
		loss := player.Cash * ev.ratio / 100
		player.Cash -= loss
		if player.Cash < 0 {
			player.Cash = 0
		}
		return fmt.Sprintf("%s\nYou lost %d%% of your cash.", ev.msg, ev.ratio)
	}
	return ""
}

func (e *Engine) runHacking(rng dice, player *Player) string {
	if rng.Intn(1001)%25 != 0 {
		return ""
	}
	if player.BankSavings < 1000 {
		return ""
	}
	if player.BankSavings > 100000 {
		amount := player.BankSavings / (2 + rng.Intn(20))
		if rng.Intn(21)%3 != 0 {
			player.BankSavings -= amount
			return fmt.Sprintf("Hackers breached your bank's network and modified the database. Your savings decreased by $%d.", amount)
		}
		player.BankSavings += amount
		return fmt.Sprintf("Hackers breached your bank's network and modified the database. Your savings increased by $%d!", amount)
	}
	amount := player.BankSavings / (1 + rng.Intn(15))
	player.BankSavings += amount
	return fmt.Sprintf("Hackers breached your bank's network and modified the database. Your savings increased by $%d!", amount)
}
