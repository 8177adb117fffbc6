package redis

import "github.com/redis/go-redis/v9"

// appendIfHighestScript is the compare-and-append of one bid.
//
//	KEYS[1] - auction hash (base_price, status, highest, seq, last_ts)
//	KEYS[2] - auction bid list
//	ARGV[1] - bid amount, fixed two decimals like every stored amount
//	ARGV[2] - expected prior highest, empty when no bids are expected
//	ARGV[3] - caller clock in unix microseconds
//	ARGV[4] - encoded bid record
//
// Returns {1, seq, created_at} on success, otherwise a single status:
//
//	 0 - highest changed (conflict)
//	-1 - auction not found
//	-2 - auction closed
//	-3 - below base price
//	-4 - not above highest
var appendIfHighestScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
    return {-1}
end
if redis.call('HGET', KEYS[1], 'status') ~= 'OPEN' then
    return {-2}
end

local highest = redis.call('HGET', KEYS[1], 'highest') or ''
if highest ~= ARGV[2] then
    return {0}
end

-- exact comparison of non-negative fixed two-decimal strings, tonumber would round through doubles
local function cmp_amount(a, b)
    if #a ~= #b then
        return #a < #b and -1 or 1
    end
    if a == b then
        return 0
    end
    return a < b and -1 or 1
end

if highest == '' then
    if cmp_amount(ARGV[1], redis.call('HGET', KEYS[1], 'base_price')) < 0 then
        return {-3}
    end
elseif cmp_amount(ARGV[1], highest) <= 0 then
    return {-4}
end

-- created_at never goes backwards inside one auction
local ts = ARGV[3]
local last = redis.call('HGET', KEYS[1], 'last_ts')
if last and tonumber(last) > tonumber(ts) then
    ts = last
end

local seq = redis.call('HINCRBY', KEYS[1], 'seq', 1)
redis.call('HSET', KEYS[1], 'highest', ARGV[1], 'last_ts', ts)
redis.call('RPUSH', KEYS[2], ts .. '|' .. ARGV[4])
return {1, seq, ts}
`)
