package themes

// Theme labels.
const (
	ComingOfAge     = "Coming of Age"
	SelfDiscovery   = "Self-Discovery"
	LoveRomance     = "Love & Romance"
	Morality        = "Morality & Ethics"
	SocialCriticism = "Social Criticism"
	Adventure       = "Adventure"
	Nature          = "Nature"
	DeathMortality  = "Death & Mortality"
	Family          = "Family"
	WarConflict     = "War & Conflict"
	Freedom         = "Freedom"
	FaithReligion   = "Faith & Religion"
	Ambition        = "Ambition & Power"
	Isolation       = "Isolation & Alienation"
)

// Table maps theme labels to lowercase trigger keywords.
type Table map[string][]string

// DefaultTables are the built-in keyword tables per language.
var DefaultTables = map[string]Table{
	"en": {
		ComingOfAge:     {"growing up", "childhood", "youth", "adolescent", "mature", "coming of age", "rite of passage", "innocence", "adulthood"},
		SelfDiscovery:   {"identity", "self", "soul", "purpose", "meaning", "destiny", "truth", "enlightenment", "awakening", "realization"},
		LoveRomance:     {"love", "heart", "passion", "beloved", "marriage", "romance", "affection", "devotion", "desire"},
		Morality:        {"moral", "virtue", "sin", "conscience", "duty", "honor", "righteous", "ethical", "good", "evil", "temptation"},
		SocialCriticism: {"society", "class", "poverty", "wealth", "injustice", "oppression", "inequality", "corruption", "hypocrisy"},
		Adventure:       {"adventure", "journey", "quest", "explore", "discover", "voyage", "expedition", "danger", "brave", "hero"},
		Nature:          {"nature", "forest", "mountain", "sea", "river", "wild", "animal", "natural", "landscape"},
		DeathMortality:  {"death", "die", "grave", "mortal", "funeral", "ghost", "afterlife", "eternal", "fate"},
		Family:          {"family", "father", "mother", "brother", "sister", "parent", "child", "home", "heritage"},
		WarConflict:     {"war", "battle", "soldier", "army", "enemy", "fight", "conflict", "peace", "victory", "defeat"},
		Freedom:         {"freedom", "liberty", "free", "escape", "prison", "captive", "chains", "independence"},
		FaithReligion:   {"god", "faith", "prayer", "church", "soul", "heaven", "divine", "spirit", "holy", "salvation"},
		Ambition:        {"ambition", "power", "success", "glory", "fame", "fortune", "aspiration", "dream", "goal"},
		Isolation:       {"alone", "lonely", "solitude", "isolation", "exile", "outcast", "stranger", "alienation"},
	},
	"de": {
		ComingOfAge:     {"erwachsen", "jugend", "kindheit", "reife", "entwicklung", "bildung", "lehrjahre"},
		SelfDiscovery:   {"selbst", "seele", "identität", "sinn", "wahrheit", "erkenntnis", "erwachen", "bestimmung"},
		LoveRomance:     {"liebe", "herz", "leidenschaft", "ehe", "hochzeit", "zuneigung", "sehnsucht", "verlangen"},
		Morality:        {"moral", "tugend", "sünde", "gewissen", "pflicht", "ehre", "gut", "böse", "schuld"},
		SocialCriticism: {"gesellschaft", "klasse", "armut", "reichtum", "ungerechtigkeit", "unterdrückung", "bürger"},
		Adventure:       {"abenteuer", "reise", "fahrt", "entdeckung", "gefahr", "held", "mut", "wagnis"},
		Nature:          {"natur", "wald", "berg", "meer", "fluss", "wild", "tier", "landschaft"},
		DeathMortality:  {"tod", "sterben", "grab", "sterblich", "geist", "ewigkeit", "schicksal", "ende"},
		Family:          {"familie", "vater", "mutter", "bruder", "schwester", "eltern", "kind", "heim", "erbe"},
		WarConflict:     {"krieg", "kampf", "soldat", "heer", "feind", "schlacht", "frieden", "sieg", "niederlage"},
		Freedom:         {"freiheit", "frei", "flucht", "gefängnis", "ketten", "befreiung", "unabhängigkeit"},
		FaithReligion:   {"gott", "glaube", "gebet", "kirche", "seele", "himmel", "heilig", "erlösung", "segen"},
		Ambition:        {"ehrgeiz", "macht", "erfolg", "ruhm", "traum", "ziel", "streben", "aufstieg"},
		Isolation:       {"einsamkeit", "allein", "einsam", "fremd", "außenseiter", "verbannt", "verlassen"},
	},
	"es": {
		ComingOfAge:     {"crecer", "juventud", "infancia", "madurez", "adolescencia", "formación"},
		SelfDiscovery:   {"identidad", "alma", "sentido", "verdad", "destino", "despertar", "iluminación"},
		LoveRomance:     {"amor", "corazón", "pasión", "matrimonio", "boda", "deseo", "cariño", "enamorado"},
		Morality:        {"moral", "virtud", "pecado", "conciencia", "deber", "honor", "bien", "mal", "culpa"},
		SocialCriticism: {"sociedad", "clase", "pobreza", "riqueza", "injusticia", "opresión", "corrupción"},
		Adventure:       {"aventura", "viaje", "búsqueda", "explorar", "peligro", "héroe", "valiente"},
		Nature:          {"naturaleza", "bosque", "montaña", "mar", "río", "salvaje", "animal", "paisaje"},
		DeathMortality:  {"muerte", "morir", "tumba", "mortal", "fantasma", "eternidad", "destino"},
		Family:          {"familia", "padre", "madre", "hermano", "hermana", "hijo", "hogar", "herencia"},
		WarConflict:     {"guerra", "batalla", "soldado", "ejército", "enemigo", "lucha", "paz", "victoria"},
		Freedom:         {"libertad", "libre", "escape", "prisión", "cadenas", "independencia", "liberación"},
		FaithReligion:   {"dios", "fe", "oración", "iglesia", "alma", "cielo", "sagrado", "salvación"},
		Ambition:        {"ambición", "poder", "éxito", "gloria", "fama", "sueño", "meta", "fortuna"},
		Isolation:       {"soledad", "solo", "solitario", "aislamiento", "exilio", "extranjero", "abandonado"},
	},
	"fr": {
		ComingOfAge:     {"grandir", "jeunesse", "enfance", "maturité", "adolescence", "formation"},
		SelfDiscovery:   {"identité", "âme", "sens", "vérité", "destin", "éveil", "illumination"},
		LoveRomance:     {"amour", "coeur", "passion", "mariage", "noces", "désir", "tendresse", "amoureux"},
		Morality:        {"moral", "vertu", "péché", "conscience", "devoir", "honneur", "bien", "mal", "culpabilité"},
		SocialCriticism: {"société", "classe", "pauvreté", "richesse", "injustice", "oppression", "corruption"},
		Adventure:       {"aventure", "voyage", "quête", "explorer", "danger", "héros", "brave"},
		Nature:          {"nature", "forêt", "montagne", "mer", "rivière", "sauvage", "animal", "paysage"},
		DeathMortality:  {"mort", "mourir", "tombe", "mortel", "fantôme", "éternité", "destin"},
		Family:          {"famille", "père", "mère", "frère", "soeur", "enfant", "foyer", "héritage"},
		WarConflict:     {"guerre", "bataille", "soldat", "armée", "ennemi", "lutte", "paix", "victoire"},
		Freedom:         {"liberté", "libre", "évasion", "prison", "chaînes", "indépendance", "libération"},
		FaithReligion:   {"dieu", "foi", "prière", "église", "âme", "ciel", "sacré", "salut"},
		Ambition:        {"ambition", "pouvoir", "succès", "gloire", "renommée", "rêve", "but", "fortune"},
		Isolation:       {"solitude", "seul", "solitaire", "isolement", "exil", "étranger", "abandonné"},
	},
}
