package catalog

// knownAliases maps lower-case clean titles to Steam app ids. An id of 0 or
// less marks a title known not to be on Steam; it is never returned.
var knownAliases = map[string]int64{
	// General
	"cyberpunk 2077": 1091500,
	"baldur's gate 3": 1086940,
	"elden ring": 1245620,
	"elden ring nightreign": 2622380,
	"doom eternal": 782330,
	"days gone": 1259420,
	"gta v": 271590,
	"grand theft auto v": 271590,
	"grand theft auto v enhanced": 271590,
	"snowrunner": 1465360,
	"arma 3": 107410,
	"forza horizon 5": 1551360,
	"forza motorsport": 2440510,
	"halo infinite": 1240440,
	"stalker 2 heart of chornobyl": 1643320,
	"s.t.a.l.k.e.r. 2": 1643320,
	"kingdom come deliverance ii": 1771300,
	"frostpunk": 323190,
	"frostpunk 2": 1601580,
	"cities skylines ii": 949230,
	"farming simulator 22": 1248130,
	"farming simulator 25": 2300320,
	"age of empires iv": 1466860,
	"age of empires ii definitive edition": 813780,
	"age of empires iii definitive edition": 933110,
	"age of empires definitive edition": 1017900,
	"hitman 3": 1659040,
	"hitman world of assassination": 1659040,
	"assassin's creed odyssey": 812140,
	"assassin's creed mirage": 2208920,
	"diablo 2 resurrected": 0,
	"far cry 5": 552520,
	"need for speed heat": 1222680,
	"hollow knight silksong": 1030300,
	"alan wake 2": 0,
	"final fantasy vii remake intergrade": 1462040,
	"final fantasy vii rebirth": 2909400,
	"final fantasy xvi": 2515020,
	"conan exiles": 440900,
	"icarus": 1149460,
	"company of heroes 3": 1677280,
	"mechwarrior 5 clans": 1983350,
	"northgard": 466560,
	"space engineers": 244850,
	"automobilista 2": 1066890,
	"dirt rally 2.0": 690790,

	// Command & Conquer
	"c&c - remastered collection": 1213210,
	"c&c remastered collection": 1213210,
	"command & conquer remastered collection": 1213210,
	"command and conquer remastered collection": 1213210,
	"c&c red alert 3": 17480,
	"command & conquer red alert 3": 17480,
	"c&c 3 tiberium wars": 24790,
	"command & conquer 3 tiberium wars": 24790,

	// Fallout
	"fallout 4": 377160,
	"fallout 4 goty": 377160,
	"fallout 76": 1151340,
	"fallout new vegas": 22380,
	"fallout 3": 22300,
	"fallout 3 goty": 22300,

	// Simulators
	"gold rush - the game": 451340,
	"gold rush the game": 451340,
	"euro truck simulator 2": 227300,
	"american truck simulator": 270880,
	"train sim world": 530070,
	"train sim world 2": 1282590,
	"train sim world 3": 1944790,
	"train sim world 4": 2362320,

	// Action and RPG
	"red dead redemption 2": 1174180,
	"rdr2": 1174180,
	"the witcher 3": 292030,
	"witcher 3": 292030,
	"witcher 3 wild hunt": 292030,
	"the witcher 3 wild hunt": 292030,
	"gta iv": 12210,
	"grand theft auto iv": 12210,
	"death stranding": 1190460,
	"death stranding director's cut": 1850570,
	"horizon zero dawn": 1151640,
	"horizon forbidden west": 2420110,
	"god of war": 1593500,
	"god of war ragnarok": 2322010,
	"resident evil 4": 2050650,
	"resident evil 4 remake": 2050650,
	"resident evil village": 1196590,
	"resident evil 8": 1196590,
	"sekiro": 814380,
	"sekiro shadows die twice": 814380,
	"dark souls iii": 374320,
	"dark souls 3": 374320,
	"dark souls remastered": 570940,
	"monster hunter rise": 1446780,
	"monster hunter world": 582010,
	"armored core vi": 1888160,
	"armored core 6": 1888160,
	"armored core vi fires of rubicon": 1888160,

	// Racing
	"assetto corsa": 244210,
	"assetto corsa competizione": 805550,
	"f1 23": 2108330,
	"f1 2023": 2108330,
	"f1 24": 2488620,
	"f1 2024": 2488620,
	"need for speed unbound": 1846380,
	"need for speed most wanted": 1262540,
	"the crew motorfest": 1933490,
	"crew motorfest": 1933490,

	// Strategy
	"total war warhammer iii": 1142710,
	"total war warhammer 3": 1142710,
	"civilization vi": 289070,
	"civilization 6": 289070,
	"civ 6": 289070,
	"crusader kings iii": 1158310,
	"crusader kings 3": 1158310,
	"europa universalis iv": 236850,
	"eu4": 236850,
	"stellaris": 281990,
	"hearts of iron iv": 394360,
	"hoi4": 394360,

	// Indie
	"hades": 1145360,
	"hades ii": 1145350,
	"hades 2": 1145350,
	"hollow knight": 367520,
	"celeste": 504230,
	"cuphead": 268910,
	"dead cells": 588650,
	"stardew valley": 413150,
	"terraria": 105600,
	"valheim": 892970,
	"satisfactory": 526870,
	"factorio": 427520,
	"rimworld": 294100,
	"subnautica": 264710,
	"subnautica below zero": 848450,

	// Survival
	"rust": 252490,
	"ark survival evolved": 346110,
	"ark survival ascended": 2399830,
	"the forest": 242760,
	"sons of the forest": 1326470,
	"raft": 648800,
	"grounded": 962130,
	"v rising": 1604030,
	"palworld": 1623730,

	// Horror
	"resident evil 2": 883710,
	"resident evil 2 remake": 883710,
	"resident evil 3": 952060,
	"resident evil 3 remake": 952060,
	"dead space": 1693980,
	"dead space remake": 1693980,
	"the callisto protocol": 1461830,
	"outlast": 238320,
	"amnesia rebirth": 999220,
	"amnesia the bunker": 1944430,

	// Sports
	"ea sports fc 24": 2195250,
	"fc 24": 2195250,
	"fifa 24": 2195250,
	"ea sports fc 25": 2669320,
	"fc 25": 2669320,
	"nba 2k24": 2338770,
	"nba 2k25": 2688840,

	// Other
	"starfield": 1716740,
	"hogwarts legacy": 990080,
	"spider-man remastered": 1817070,
	"marvel's spider-man remastered": 1817070,
	"spider-man miles morales": 1817190,
	"marvel's spider-man miles morales": 1817190,
	"ghost of tsushima": 2215430,
	"ghost of tsushima director's cut": 2215430,
	"lies of p": 1627720,
	"lords of the fallen": 1501750,
	"wo long fallen dynasty": 1448440,
	"black myth wukong": 2358720,

	// Elder Scrolls
	"tes iv - oblivion remastered": 22330,
	"tes iv oblivion remastered": 22330,
	"oblivion remastered": 22330,
	"the elder scrolls iv oblivion": 22330,
	"tes v - skyrim": 489830,
	"skyrim special edition": 489830,
	"skyrim anniversary edition": 489830,

	// Warhammer 40,000
	"wh40k - space marine": 55150,
	"wh40k space marine": 55150,
	"warhammer 40000 space marine": 55150,
	"wh40k - space marine mce": 55150,
	"space marine 2": 2183900,
	"warhammer 40000 space marine 2": 2183900,

	// DOOM
	"doom classic bundle": 2280,
	"doom i & ii enhanced": 2280,
	"doom 1": 2280,
	"doom 2": 2300,
	"doom 3": 9050,
	"doom 2016": 379720,
	"doom": 379720,

	// Syberia
	"syberia - remastered": 46500,
	"syberia remastered": 46500,
	"syberia": 46500,
	"syberia 2": 46510,
	"syberia 3": 464340,
	"syberia the world before": 1410680,

	// GTA trilogy; III stands in for the bundle
	"gta trilogy - definitive edition": 1847330,
	"gta trilogy definitive edition": 1847330,
	"grand theft auto trilogy - definitive edition": 1847330,
	"grand theft auto trilogy definitive edition": 1847330,
	"gta iii definitive edition": 1847330,
	"gta vice city definitive edition": 1546990,
	"gta san andreas definitive edition": 1547000,

	// Commandos
	"commandos - origins": 1479730,
	"commandos origins": 1479730,

	// Not sold on Steam
	"diablo 2 - resurrected": 0,
	"diablo ii resurrected": 0,
	"pokemon legends - z-a": 0,
	"pokemon legends z-a": 0,
	"super mario galaxy 1 + 2": 0,
	"super mario galaxy": 0,
	"mgs delta - snake eater": 0,
	"mgs delta snake eater": 0,

	// Jurassic Park
	"jurassic park cgc": 275890,
	"jurassic park the game": 275890,
	"jurassic world evolution": 648350,
	"jurassic world evolution 2": 1244460,
}
