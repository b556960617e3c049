package sqlinline

const QInsertCheckoutAttempt = `--sql checkout_attempt_insert
insert into checkout_attempts(id, user_id, product_id, price_id, mode, outcome, message, created_at)
values ($1::uuid, $2::uuid, $3::text, $4::text, $5::text, $6::text, $7::text, now());
`

const QListCheckoutAttempts = `--sql checkout_attempt_list_recent
select id, user_id, product_id, price_id, mode, outcome, message, created_at
from checkout_attempts
order by created_at desc
limit $1::int;
`
