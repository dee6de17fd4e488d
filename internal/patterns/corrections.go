package patterns

// Group names, in application order.
const (
	GroupWord    = "word"
	GroupVolume  = "volume"
	GroupPrice   = "price"
	GroupStore   = "store"
	GroupProduct = "product"
)

// WordCorrections fixes fixed-token OCR misreads.
var WordCorrections = []Rule{
	first(`(?i)\bcast\b`, "CASH"),
	first(`(?i)\bcaste\b`, "CASH"),
	first(`(?i)\bcass\b`, "CASH"),
	first(`(?i)\bcassh\b`, "CASH"),
	first(`(?i)\bamouut\b`, "AMOUNT"),
	first(`(?i)\bamout\b`, "AMOUNT"),
	first(`(?i)\bteder\b`, "TENDERED"),
	first(`(?i)\bpaymeut\b`, "PAYMENT"),
	first(`(?i)paymet`, "PAYMENT"),
	first(`(?i)receipt`, "RECEIPT"),
	first(`(?i)receit`, "RECEIPT"),
	first(`(?i)mercurv`, "MERCURY"),
	first(`(?i)druq`, "DRUG"),
}

// VolumeCorrections repairs unit tokens after a size.
var VolumeCorrections = []Rule{
	first(`(?i)\.dkg`, ".4kg"),
	first(`(?i)\.d\s*kg`, ".4kg"),
	first(`(?i)\.d\s*ml`, ".4ml"),
	first(`(?i)\.d\s*l`, ".4l"),
	first(`(?i)\.d\s*g`, ".4g"),
	broad(first(`(?i)kq`, "kg")),
	broad(first(`(?i)ml`, "ml")),
	broad(first(`(?i)l`, "l")),
	broad(first(`(?i)q`, "g")),
	broad(first(`(?i)pack`, "pack")),
}

// PriceCorrections repairs decimal places and strips currency markers.
var PriceCorrections = []Rule{
	first(`(?i)150\.007`, "1150.00"),
	broad(first(`(?i)1150`, "1150.00")),
	broad(first(`(?i)(\d+)\.(\d{3})`, "${1}${2}.00")),
	broad(first(`(?i)(\d+),(\d{3})`, "${1}${2}")),
	first(`(?i)₱\s*(\d+)`, "${1}"),
	first(`(?i)PHP\s*(\d+)`, "${1}"),
}

// StoreCorrections maps garbled store headers to their canonical names.
var StoreCorrections = []Rule{
	first(`(?i)NRORY`, "MERCURY"),
	first(`(?i)JRY\s+DRUG`, "MERCURY DRUG"),
	every(`(?i)[h|m]?ercury\s+d?rug`, "MERCURY DRUG"),
	every(`(?i)Shera\s+Yor\s+Naglro`, "MERCURY DRUG"),
	every(`(?i)NERO\s+DRUG`, "MERCURY DRUG"),
	first(`(?i)MERCURV\s+DRUQ`, "MERCURY DRUG"),
	first(`(?i)MERCURV\s+DRUG`, "MERCURY DRUG"),
	first(`(?i)MERCURY\s+DRUQ`, "MERCURY DRUG"),
	first(`(?i)SM\s+HVPERMARKET`, "SM HYPERMARKET"),
	first(`(?i)SM\s+SUPERMARKET`, "SM SUPERMARKET"),
	first(`(?i)ROBINSONS\s+MALL`, "ROBINSONS MALL"),
	every(`(?i)@\s*RElDmore`, "SAVEMORE"),
	every(`(?i)\(@\s*rob;\s*in:\s*<0\.\s*Br\s*Easgniatie`, "ROBINSONS SUPERMARKET"),
	every(`(?i)rob;\s*in:\s*<0\.\s*Br\s*Easgniatie`, "ROBINSONS SUPERMARKET"),
	first(`(?i)PUREGOLD`, "PUREGOLD"),
	first(`(?i)SAVEMORE`, "SAVEMORE"),
	first(`(?i)7-ELEVEN`, "7-ELEVEN"),
}

// ProductCorrections maps known garbled product lines to readable names.
// Later rules build on earlier ones: the Bear Brand misreads are first
// normalised to "BEAR B FORT..." and then expanded to the brand name.
var ProductCorrections = []Rule{
	first(`(?i)BBRAND\s+JR\s+2\.dkg`, "BBRAND JR 2.4kg"),
	first(`(?i)BBRAND\s+JR\s+2\.4kq`, "BBRAND JR 2.4kg"),
	first(`(?i)barand\s+jr`, "BBRAND JR"),
	first(`(?i)45000\s*a\s*RTIFIED`, "BEAR BRAND FORTIFIED"),
	first(`(?i)NESCAFE\s+GOLD\s+29`, "NESCAFE GOLD 2g"),
	first(`(?i)BEAR\s+B\s+FORT24000`, "BEAR B FORT2400g"),
	first(`(?i)BEAR\s+BIECRTEA0`, "BEAR B FORT840g"),
	every(`(?i)BEAR\s+B\s+FORT(\d)`, "BEAR BRAND FORT${1}"),
	first(`(?i)WIDO3HPRE-51\s*6KG`, "NIDO3+PRE-S1.6KG"),
	broad(first(`(?i)MIO034PRE-S7.`, "NIDO3+PRE-S2.4KG")),
}

// CorrectionGroups is the fixed order in which rule groups are applied.
var CorrectionGroups = []RuleGroup{
	{Name: GroupWord, Rules: WordCorrections},
	{Name: GroupVolume, Rules: VolumeCorrections},
	{Name: GroupPrice, Rules: PriceCorrections},
	{Name: GroupStore, Rules: StoreCorrections},
	{Name: GroupProduct, Rules: ProductCorrections},
}

// ItemCorrectionGroups is applied to a single item name before product matching.
var ItemCorrectionGroups = []RuleGroup{
	{Name: GroupProduct, Rules: ProductCorrections},
	{Name: GroupVolume, Rules: VolumeCorrections},
}
